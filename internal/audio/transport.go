// Package audio defines the mono audio transport used by calibration and live
// enhancement. The PortAudio implementation lives in the portaudio subpackage.
//
// Calibration plays one buffer at a time with Player. Live enhancement hands a
// BlockProcessor to Duplex.Stream, which invokes it once per fixed-size block
// from the device callback until the context is cancelled.
package audio

import (
	"context"
	"strings"
)

// BlockProcessor transforms one input block into one output block.
// Process is called from the real-time audio callback: it must not block,
// allocate, or retain either slice. in and out have the same length.
type BlockProcessor interface {
	Process(in, out []float32)
}

// Status carries the per-block fault flags reported by the transport
type Status uint8

const (
	InputUnderflow Status = 1 << iota
	InputOverflow
	OutputUnderflow
	OutputOverflow
)

// String lists the set flags
func (s Status) String() string {
	if s == 0 {
		return "ok"
	}
	var parts []string
	for _, f := range []struct {
		flag Status
		name string
	}{
		{InputUnderflow, "input underflow"},
		{InputOverflow, "input overflow"},
		{OutputUnderflow, "output underflow"},
		{OutputOverflow, "output overflow"},
	} {
		if s&f.flag != 0 {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, ", ")
}

// StatusFunc receives non-zero per-block status. It runs on the audio callback
// and must not block.
type StatusFunc func(Status)

// Player plays a buffer to completion
type Player interface {
	Play(ctx context.Context, samples []float32) error
}

// Duplex runs a continuous input/output stream. Stream blocks until ctx is
// cancelled (returning nil once the device is torn down) or the transport
// fails (returning the error). No callback runs after Stream returns.
type Duplex interface {
	Stream(ctx context.Context, p BlockProcessor, onStatus StatusFunc) error
}

// DeviceInfo describes an audio device reported by a transport
type DeviceInfo struct {
	Name              string
	MaxInputChannels  int
	MaxOutputChannels int
	DefaultSampleRate float64
	IsDefaultInput    bool
	IsDefaultOutput   bool
}
