// Package enhance runs live enhancement: it loads a stored hearing profile and
// streams audio through the spectral equalizer until interrupted.
package enhance

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/aurelius/internal/audio"
	"github.com/RMahshie/aurelius/internal/equalizer"
	"github.com/RMahshie/aurelius/internal/storage"
)

// ErrMissingProfile is returned when no profile has been calibrated yet
var ErrMissingProfile = errors.New("no hearing profile found, run calibrate first")

// State is the lifecycle position of a Session
type State int

const (
	Idle State = iota
	ProfileLoaded
	Streaming
	Stopped
	Faulted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ProfileLoaded:
		return "profile_loaded"
	case Streaming:
		return "streaming"
	case Stopped:
		return "stopped"
	case Faulted:
		return "faulted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Config holds the stream shape of a session
type Config struct {
	BlockSize  int
	SampleRate int
	// FaultBuffer bounds how many fault reports may wait for logging.
	FaultBuffer int
}

// Session drives one live enhancement run
type Session struct {
	store  storage.ProfileStore
	duplex audio.Duplex
	cfg    Config
	logger zerolog.Logger

	mu     sync.Mutex
	state  State
	curve  *equalizer.GainCurve
	faults uint64
}

// NewSession creates an idle session
func NewSession(store storage.ProfileStore, duplex audio.Duplex, cfg Config) *Session {
	if cfg.FaultBuffer <= 0 {
		cfg.FaultBuffer = 64
	}
	return &Session{
		store:  store,
		duplex: duplex,
		cfg:    cfg,
		logger: log.With().Str("component", "enhance").Logger(),
	}
}

// State returns the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Curve returns the prepared gain curve, or nil before Load succeeds
func (s *Session) Curve() *equalizer.GainCurve {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.curve
}

// Faults returns the number of transport faults seen by the last Run
func (s *Session) Faults() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faults
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Load reads the named profile and prepares its gain curve. On failure the
// session stays Idle.
func (s *Session) Load(ctx context.Context, name string) error {
	if st := s.State(); st != Idle {
		return fmt.Errorf("cannot load a profile in state %s", st)
	}

	p, err := s.store.Load(ctx, name)
	if errors.Is(err, storage.ErrProfileNotFound) {
		return fmt.Errorf("%w: %w", ErrMissingProfile, err)
	}
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	curve, err := equalizer.Prepare(p, s.cfg.BlockSize, s.cfg.SampleRate)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	s.mu.Lock()
	s.curve = curve
	s.state = ProfileLoaded
	s.mu.Unlock()

	s.logger.Info().
		Str("profile", name).
		Int("points", len(p)).
		Int("bins", curve.Len()).
		Float64("max_gain_db", curve.MaxGainDB()).
		Msg("Profile loaded")
	return nil
}

// Run streams until ctx is cancelled (Stopped, nil error) or the transport
// fails (Faulted, the transport error).
func (s *Session) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.state != ProfileLoaded {
		st := s.state
		s.mu.Unlock()
		return fmt.Errorf("cannot start streaming in state %s", st)
	}
	s.state = Streaming
	curve := s.curve
	s.mu.Unlock()

	monitor := audio.NewFaultMonitor(s.logger, s.cfg.FaultBuffer)
	go monitor.Run()

	s.logger.Info().Int("block_size", s.cfg.BlockSize).Int("sample_rate", s.cfg.SampleRate).Msg("Live enhancement started")
	err := s.duplex.Stream(ctx, equalizer.NewProcessor(curve), monitor.Report)
	monitor.Close()

	s.mu.Lock()
	s.faults = monitor.Faults()
	s.mu.Unlock()

	if err != nil && ctx.Err() == nil {
		s.setState(Faulted)
		s.logger.Error().Err(err).Uint64("faults", monitor.Faults()).Msg("Live enhancement failed")
		return fmt.Errorf("audio stream failed: %w", err)
	}

	s.setState(Stopped)
	s.logger.Info().Uint64("faults", monitor.Faults()).Msg("Live enhancement stopped")
	return nil
}
