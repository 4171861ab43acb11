package audio

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

// FaultMonitor moves transport status reports off the audio callback and logs
// them. Report never blocks; reports arriving while the buffer is full are
// counted as dropped.
type FaultMonitor struct {
	logger  zerolog.Logger
	reports chan Status
	done    chan struct{}
	total   atomic.Uint64
	dropped atomic.Uint64
}

// NewFaultMonitor creates a monitor buffering up to size pending reports
func NewFaultMonitor(logger zerolog.Logger, size int) *FaultMonitor {
	if size < 1 {
		size = 1
	}
	return &FaultMonitor{
		logger:  logger,
		reports: make(chan Status, size),
		done:    make(chan struct{}),
	}
}

// Report records a status from the audio callback. Zero status is ignored.
func (m *FaultMonitor) Report(s Status) {
	if s == 0 {
		return
	}
	m.total.Add(1)
	select {
	case m.reports <- s:
	default:
		m.dropped.Add(1)
	}
}

// Run logs reports until Close is called. It returns after the backlog is drained.
func (m *FaultMonitor) Run() {
	defer close(m.done)
	for s := range m.reports {
		m.logger.Warn().
			Str("status", s.String()).
			Uint64("faults_total", m.total.Load()).
			Msg("Audio transport fault, continuing with next block")
	}
	if dropped := m.dropped.Load(); dropped > 0 {
		m.logger.Warn().Uint64("dropped_reports", dropped).Msg("Some transport fault reports were not logged")
	}
}

// Close stops the monitor and waits for Run to finish. Run must have been
// started, and the transport must no longer be able to call Report.
func (m *FaultMonitor) Close() {
	close(m.reports)
	<-m.done
}

// Faults returns how many non-zero statuses were reported
func (m *FaultMonitor) Faults() uint64 {
	return m.total.Load()
}

// Dropped returns how many reports were counted but not logged
func (m *FaultMonitor) Dropped() uint64 {
	return m.dropped.Load()
}
