package audio

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrStalled is returned when a stream stops delivering blocks
var ErrStalled = errors.New("audio stream stalled")

// Heartbeat detects a transport whose callback has stopped firing, e.g. after
// the device was unplugged. Beat is safe to call from the audio callback.
type Heartbeat struct {
	beats atomic.Uint64
}

// Beat records one delivered block
func (h *Heartbeat) Beat() {
	h.beats.Add(1)
}

// Watch blocks until ctx is done, returning nil, or until a full timeout
// passes without a Beat, returning ErrStalled.
func (h *Heartbeat) Watch(ctx context.Context, timeout time.Duration) error {
	ticker := time.NewTicker(timeout)
	defer ticker.Stop()

	last := h.beats.Load()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n := h.beats.Load()
			if n == last {
				return ErrStalled
			}
			last = n
		}
	}
}
