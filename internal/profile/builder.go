// Package profile turns measured hearing thresholds into a compensation profile.
package profile

import (
	"math"

	"github.com/RMahshie/aurelius/pkg/models"
)

// MaxGainDB caps the compensation applied at any frequency
const MaxGainDB = 30.0

// Build converts thresholds into a profile. A threshold of t dB yields a gain of
// -t clamped to [0, maxGainDb]: quiet-only perception needs no boost, and the cap
// bounds output loudness.
func Build(thresholds models.HearingThreshold, maxGainDb float64) models.HearingProfile {
	profile := make(models.HearingProfile, len(thresholds))
	for _, t := range thresholds {
		profile[t.Frequency] = Gain(t.ThresholdDB, maxGainDb)
	}
	return profile
}

// Gain returns the compensation for a single threshold
func Gain(thresholdDb, maxGainDb float64) float64 {
	return math.Max(0, math.Min(maxGainDb, -thresholdDb))
}
