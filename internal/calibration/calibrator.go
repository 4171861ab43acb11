// Package calibration runs the interactive audibility sweep that measures a
// listener's threshold at each calibration frequency.
package calibration

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/RMahshie/aurelius/internal/audio"
	"github.com/RMahshie/aurelius/pkg/models"
)

// ErrInvalidSweep is returned when the sweep parameters cannot produce a measurement
var ErrInvalidSweep = errors.New("invalid calibration sweep")

// Responder asks the listener whether the tone just played was heard
type Responder interface {
	Heard(ctx context.Context, frequency, levelDB float64) (bool, error)
}

// FrequencyFunc is notified after each frequency has been measured
type FrequencyFunc func(index, total int, point models.ThresholdPoint)

// Calibrator plays tones through a Player and records the first level the
// Responder reports as heard.
type Calibrator struct {
	player      audio.Player
	responder   Responder
	sampleRate  int
	toneSeconds float64
	onFrequency FrequencyFunc
}

// NewCalibrator creates a calibrator
func NewCalibrator(player audio.Player, responder Responder, sampleRate int, toneSeconds float64) *Calibrator {
	return &Calibrator{
		player:      player,
		responder:   responder,
		sampleRate:  sampleRate,
		toneSeconds: toneSeconds,
	}
}

// OnFrequency registers a callback run after each frequency completes
func (c *Calibrator) OnFrequency(fn FrequencyFunc) {
	c.onFrequency = fn
}

// Levels returns the sweep levels from ampStartDb to ampEndDb inclusive
func Levels(ampStartDb, ampEndDb, ampStepDb float64) []float64 {
	var levels []float64
	for i := 0; ; i++ {
		level := ampStartDb + float64(i)*ampStepDb
		if level > ampEndDb+1e-9 {
			break
		}
		levels = append(levels, level)
	}
	return levels
}

// Validate checks the sweep parameters against the calibrator's sample rate
func (c *Calibrator) Validate(frequencies []float64, ampStartDb, ampEndDb, ampStepDb float64) error {
	if len(frequencies) == 0 {
		return fmt.Errorf("%w: no frequencies", ErrInvalidSweep)
	}
	if ampStepDb <= 0 {
		return fmt.Errorf("%w: step must be positive, got %v dB", ErrInvalidSweep, ampStepDb)
	}
	if ampStartDb > ampEndDb {
		return fmt.Errorf("%w: start %v dB is above end %v dB", ErrInvalidSweep, ampStartDb, ampEndDb)
	}
	if c.sampleRate <= 0 || c.toneSeconds <= 0 {
		return fmt.Errorf("%w: sample rate and tone duration must be positive", ErrInvalidSweep)
	}
	nyquist := float64(c.sampleRate) / 2
	seen := make(map[float64]bool, len(frequencies))
	for _, f := range frequencies {
		if f <= 0 || f >= nyquist {
			return fmt.Errorf("%w: frequency %v Hz outside (0, %v)", ErrInvalidSweep, f, nyquist)
		}
		if seen[f] {
			return fmt.Errorf("%w: frequency %v Hz listed twice", ErrInvalidSweep, f)
		}
		seen[f] = true
	}
	return nil
}

// MeasureThresholds sweeps each frequency from quiet to loud and records the
// first level heard. A frequency never heard is recorded at 0 dB with Heard unset.
func (c *Calibrator) MeasureThresholds(ctx context.Context, frequencies []float64, ampStartDb, ampEndDb, ampStepDb float64) (models.HearingThreshold, error) {
	if err := c.Validate(frequencies, ampStartDb, ampEndDb, ampStepDb); err != nil {
		return nil, err
	}

	levels := Levels(ampStartDb, ampEndDb, ampStepDb)
	thresholds := make(models.HearingThreshold, 0, len(frequencies))

	for i, freq := range frequencies {
		point, err := c.measure(ctx, freq, levels)
		if err != nil {
			return nil, err
		}
		thresholds = append(thresholds, point)

		ev := log.Info().Float64("frequency", freq)
		if point.Heard {
			ev.Float64("threshold_db", point.ThresholdDB).Msg("Threshold found")
		} else {
			ev.Msg("No tone heard in sweep")
		}
		if c.onFrequency != nil {
			c.onFrequency(i, len(frequencies), point)
		}
	}

	return thresholds, nil
}

func (c *Calibrator) measure(ctx context.Context, freq float64, levels []float64) (models.ThresholdPoint, error) {
	for _, level := range levels {
		if err := ctx.Err(); err != nil {
			return models.ThresholdPoint{}, err
		}

		tone := audio.Tone(freq, audio.DBToLinear(level), c.toneSeconds, c.sampleRate)
		if err := c.player.Play(ctx, tone); err != nil {
			return models.ThresholdPoint{}, fmt.Errorf("failed to play %v Hz tone at %v dB: %w", freq, level, err)
		}

		heard, err := c.responder.Heard(ctx, freq, level)
		if err != nil {
			return models.ThresholdPoint{}, fmt.Errorf("failed to read response: %w", err)
		}
		if heard {
			return models.ThresholdPoint{Frequency: freq, ThresholdDB: level, Heard: true}, nil
		}
	}
	return models.ThresholdPoint{Frequency: freq, ThresholdDB: 0, Heard: false}, nil
}
