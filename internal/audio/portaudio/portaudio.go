// Package portaudio implements the audio transport on the PortAudio library.
// It needs cgo and the PortAudio system library.
package portaudio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	pa "github.com/gordonklaus/portaudio"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/aurelius/internal/audio"
)

// StallTimeout is how long a duplex stream may go without a callback before
// Stream gives up on the device.
const StallTimeout = 2 * time.Second

var (
	initOnce sync.Once
	initErr  error
)

// Initialize initializes the PortAudio library.
// It is safe to call multiple times.
func Initialize() error {
	initOnce.Do(func() {
		initErr = pa.Initialize()
	})
	return initErr
}

// Terminate terminates the PortAudio library.
func Terminate() error {
	return pa.Terminate()
}

// Devices returns a list of available audio devices.
func Devices() ([]audio.DeviceInfo, error) {
	if err := Initialize(); err != nil {
		return nil, err
	}

	devices, err := pa.Devices()
	if err != nil {
		return nil, err
	}

	var defaultIn, defaultOut string
	if d, err := pa.DefaultInputDevice(); err == nil && d != nil {
		defaultIn = d.Name
	}
	if d, err := pa.DefaultOutputDevice(); err == nil && d != nil {
		defaultOut = d.Name
	}

	out := make([]audio.DeviceInfo, 0, len(devices))
	for _, d := range devices {
		out = append(out, audio.DeviceInfo{
			Name:              d.Name,
			MaxInputChannels:  d.MaxInputChannels,
			MaxOutputChannels: d.MaxOutputChannels,
			DefaultSampleRate: d.DefaultSampleRate,
			IsDefaultInput:    d.Name == defaultIn,
			IsDefaultOutput:   d.Name == defaultOut,
		})
	}
	return out, nil
}

// Transport is a mono transport on the default input and output devices
type Transport struct {
	sampleRate int
	blockSize  int
}

var (
	_ audio.Player = (*Transport)(nil)
	_ audio.Duplex = (*Transport)(nil)
)

// New initializes PortAudio and returns a transport with the given block size
func New(sampleRate, blockSize int) (*Transport, error) {
	if sampleRate <= 0 || blockSize <= 0 {
		return nil, fmt.Errorf("invalid stream parameters: sample rate %d, block size %d", sampleRate, blockSize)
	}
	if err := Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}
	return &Transport{sampleRate: sampleRate, blockSize: blockSize}, nil
}

// Play writes samples to the default output device and returns once they have
// been played out.
func (t *Transport) Play(ctx context.Context, samples []float32) error {
	buf := make([]float32, t.blockSize)
	stream, err := pa.OpenDefaultStream(0, 1, float64(t.sampleRate), len(buf), &buf)
	if err != nil {
		return fmt.Errorf("failed to open output stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("failed to start output stream: %w", err)
	}

	for off := 0; off < len(samples); off += len(buf) {
		if err := ctx.Err(); err != nil {
			_ = stream.Abort()
			return err
		}
		n := copy(buf, samples[off:])
		clear(buf[n:])
		if err := stream.Write(); err != nil && !errors.Is(err, pa.OutputUnderflowed) {
			_ = stream.Abort()
			return fmt.Errorf("failed to write output stream: %w", err)
		}
	}

	// Stop drains the queued buffers before returning
	if err := stream.Stop(); err != nil {
		return fmt.Errorf("failed to stop output stream: %w", err)
	}
	return nil
}

// Stream runs p on every block from the default input and writes the result to
// the default output until ctx is cancelled. The binding reports no
// asynchronous device errors, so a stream whose callback stops firing for
// StallTimeout is aborted and reported as audio.ErrStalled.
func (t *Transport) Stream(ctx context.Context, p audio.BlockProcessor, onStatus audio.StatusFunc) error {
	var hb audio.Heartbeat
	callback := func(in, out []float32, _ pa.StreamCallbackTimeInfo, flags pa.StreamCallbackFlags) {
		hb.Beat()
		if onStatus != nil {
			if s := statusFromFlags(flags); s != 0 {
				onStatus(s)
			}
		}
		p.Process(in, out)
	}

	stream, err := pa.OpenDefaultStream(1, 1, float64(t.sampleRate), t.blockSize, callback)
	if err != nil {
		return fmt.Errorf("failed to open duplex stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("failed to start duplex stream: %w", err)
	}
	log.Debug().Int("sample_rate", t.sampleRate).Int("block_size", t.blockSize).Msg("Duplex stream started")

	if err := hb.Watch(ctx, StallTimeout); err != nil {
		_ = stream.Abort()
		return fmt.Errorf("duplex stream failed: %w", err)
	}

	// Stop returns after the last callback has completed
	if err := stream.Stop(); err != nil {
		return fmt.Errorf("failed to stop duplex stream: %w", err)
	}
	log.Debug().Msg("Duplex stream stopped")
	return nil
}

func statusFromFlags(flags pa.StreamCallbackFlags) audio.Status {
	var s audio.Status
	if flags&pa.InputUnderflow != 0 {
		s |= audio.InputUnderflow
	}
	if flags&pa.InputOverflow != 0 {
		s |= audio.InputOverflow
	}
	if flags&pa.OutputUnderflow != 0 {
		s |= audio.OutputUnderflow
	}
	if flags&pa.OutputOverflow != 0 {
		s |= audio.OutputOverflow
	}
	return s
}
