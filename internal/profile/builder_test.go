package profile

import (
	"testing"

	"github.com/RMahshie/aurelius/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestGain(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		want      float64
	}{
		{name: "loss beyond the cap", threshold: -45, want: 30},
		{name: "moderate loss", threshold: -10, want: 10},
		{name: "exactly at the cap", threshold: -30, want: 30},
		{name: "no loss", threshold: 0, want: 0},
		{name: "positive threshold never attenuates", threshold: 5, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Gain(tt.threshold, MaxGainDB))
		})
	}
}

func TestBuild(t *testing.T) {
	thresholds := models.HearingThreshold{
		{Frequency: 250, ThresholdDB: -20, Heard: true},
		{Frequency: 1000, ThresholdDB: -5, Heard: true},
		{Frequency: 4000, ThresholdDB: -60, Heard: true},
		{Frequency: 8000, ThresholdDB: 0, Heard: false},
	}

	p := Build(thresholds, MaxGainDB)

	assert.Equal(t, models.HearingProfile{250: 20, 1000: 5, 4000: 30, 8000: 0}, p)
	for f, g := range p {
		assert.GreaterOrEqual(t, g, 0.0, "gain at %v Hz", f)
		assert.LessOrEqual(t, g, MaxGainDB, "gain at %v Hz", f)
	}
}

func TestBuild_CustomCap(t *testing.T) {
	p := Build(models.HearingThreshold{{Frequency: 2000, ThresholdDB: -25, Heard: true}}, 12)
	assert.Equal(t, 12.0, p[2000])
}

func TestBuild_Empty(t *testing.T) {
	assert.Empty(t, Build(nil, MaxGainDB))
}
