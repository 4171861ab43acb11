package audio

import (
	"bytes"
	"context"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBToLinear(t *testing.T) {
	assert.InDelta(t, 1.0, DBToLinear(0), 1e-12)
	assert.InDelta(t, 10.0, DBToLinear(20), 1e-12)
	assert.InDelta(t, 0.001, DBToLinear(-60), 1e-12)
	assert.InDelta(t, 1.778279, DBToLinear(5), 1e-6)
}

func TestTone(t *testing.T) {
	const sampleRate = 44100
	amp := DBToLinear(-20)

	samples := Tone(1000, amp, 0.5, sampleRate)
	require.Len(t, samples, sampleRate/2)

	var peak float64
	crossings := 0
	for i, s := range samples {
		peak = math.Max(peak, math.Abs(float64(s)))
		if i > 0 && samples[i-1] < 0 && s >= 0 {
			crossings++
		}
	}
	assert.InDelta(t, amp, peak, 1e-3)
	// one upward zero crossing per cycle after the first
	assert.InDelta(t, 499, crossings, 1)
	assert.Equal(t, float32(0), samples[0])
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "ok", Status(0).String())
	assert.Equal(t, "output underflow", OutputUnderflow.String())
	assert.Equal(t, "input overflow, output underflow", (InputOverflow | OutputUnderflow).String())
}

func TestFaultMonitor_LogsReports(t *testing.T) {
	var buf bytes.Buffer
	m := NewFaultMonitor(zerolog.New(&buf), 8)
	go m.Run()

	m.Report(0)
	m.Report(OutputUnderflow)
	m.Report(InputOverflow)
	m.Close()

	assert.Equal(t, uint64(2), m.Faults())
	assert.Equal(t, uint64(0), m.Dropped())
	assert.Contains(t, buf.String(), "output underflow")
	assert.Contains(t, buf.String(), "input overflow")
}

func TestFaultMonitor_DropsWhenFull(t *testing.T) {
	var buf bytes.Buffer
	m := NewFaultMonitor(zerolog.New(&buf), 1)

	// Run is not started yet, so only one report fits
	m.Report(OutputUnderflow)
	m.Report(OutputUnderflow)
	m.Report(OutputUnderflow)

	assert.Equal(t, uint64(3), m.Faults())
	assert.Equal(t, uint64(2), m.Dropped())

	go m.Run()
	m.Close()
	assert.Contains(t, buf.String(), "dropped_reports")
}

func TestHeartbeat_StopsOnCancel(t *testing.T) {
	var hb Heartbeat
	ctx, cancel := context.WithCancel(context.Background())

	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				hb.Beat()
			}
		}
	}()
	defer close(stop)

	time.AfterFunc(300*time.Millisecond, cancel)
	assert.NoError(t, hb.Watch(ctx, 100*time.Millisecond))
}

func TestHeartbeat_DetectsStall(t *testing.T) {
	var hb Heartbeat
	hb.Beat()

	start := time.Now()
	err := hb.Watch(context.Background(), 20*time.Millisecond)
	assert.ErrorIs(t, err, ErrStalled)
	assert.Less(t, time.Since(start), time.Second)
}
