// Package equalizer applies a hearing profile to audio blocks in the frequency domain.
//
// Prepare interpolates the profile onto the bins of a real FFT once per session.
// The resulting GainCurve is immutable and may be shared by any number of
// Processors, each of which owns its own transform buffers.
package equalizer

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/RMahshie/aurelius/internal/audio"
	"github.com/RMahshie/aurelius/pkg/models"
)

// ErrEmptyProfile is returned when a profile has no frequency points
var ErrEmptyProfile = errors.New("profile has no frequency points")

// GainCurve holds one linear gain per FFT bin. It is never modified after Prepare.
type GainCurve struct {
	blockSize  int
	sampleRate int
	gainsDB    []float64
	gains      []float64
}

// Prepare computes the gain curve of profile for a real transform of blockSize
// samples at sampleRate. Bin k sits at k*sampleRate/blockSize Hz.
func Prepare(profile models.HearingProfile, blockSize, sampleRate int) (*GainCurve, error) {
	if len(profile) == 0 {
		return nil, ErrEmptyProfile
	}
	if blockSize < 2 {
		return nil, fmt.Errorf("block size must be at least 2, got %d", blockSize)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}

	points := profile.Points()
	bins := blockSize/2 + 1
	c := &GainCurve{
		blockSize:  blockSize,
		sampleRate: sampleRate,
		gainsDB:    make([]float64, bins),
		gains:      make([]float64, bins),
	}
	for k := 0; k < bins; k++ {
		db := InterpolateDB(points, c.Frequency(k))
		c.gainsDB[k] = db
		c.gains[k] = audio.DBToLinear(db)
	}
	return c, nil
}

// Len returns the number of bins
func (c *GainCurve) Len() int { return len(c.gains) }

// BlockSize returns the transform length the curve was prepared for
func (c *GainCurve) BlockSize() int { return c.blockSize }

// SampleRate returns the sample rate the curve was prepared for
func (c *GainCurve) SampleRate() int { return c.sampleRate }

// Frequency returns the center frequency of bin k in Hz
func (c *GainCurve) Frequency(k int) float64 {
	return float64(k) * float64(c.sampleRate) / float64(c.blockSize)
}

// At returns the linear gain of bin k
func (c *GainCurve) At(k int) float64 { return c.gains[k] }

// GainDB returns the interpolated gain of bin k in dB
func (c *GainCurve) GainDB(k int) float64 { return c.gainsDB[k] }

// InterpolateDB evaluates the piecewise-linear dB curve through points at f.
// points must be sorted by frequency. Outside the covered range the nearest
// endpoint's gain is used.
func InterpolateDB(points []models.FrequencyPoint, f float64) float64 {
	n := len(points)
	if n == 0 {
		return 0
	}
	if f <= points[0].Frequency {
		return points[0].GainDB
	}
	if f >= points[n-1].Frequency {
		return points[n-1].GainDB
	}
	// first point strictly above f
	i := sort.Search(n, func(i int) bool { return points[i].Frequency > f })
	lo, hi := points[i-1], points[i]
	t := (f - lo.Frequency) / (hi.Frequency - lo.Frequency)
	return lo.GainDB + t*(hi.GainDB-lo.GainDB)
}

// MaxGainDB returns the largest gain on the curve
func (c *GainCurve) MaxGainDB() float64 {
	peak := math.Inf(-1)
	for _, g := range c.gainsDB {
		peak = math.Max(peak, g)
	}
	return peak
}
