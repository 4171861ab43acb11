package calibration

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/aurelius/internal/profile"
	"github.com/RMahshie/aurelius/internal/repository"
	"github.com/RMahshie/aurelius/internal/storage"
	"github.com/RMahshie/aurelius/pkg/models"
)

// Sweep holds the parameters of one calibration run
type Sweep struct {
	Frequencies []float64
	AmpStartDB  float64
	AmpEndDB    float64
	AmpStepDB   float64
	MaxGainDB   float64 // used as given; 0 disables boosting
}

// Result is the outcome of a completed calibration
type Result struct {
	SessionID  string
	Thresholds models.HearingThreshold
	Profile    models.HearingProfile
}

type CalibrationService interface {
	Calibrate(ctx context.Context, profileName string, sweep Sweep) (*Result, error)
}

type calibrationService struct {
	calibrator *Calibrator
	store      storage.ProfileStore
	repository repository.CalibrationRepository // nil disables history
}

// NewCalibrationService wires measurement, profile building and persistence.
// repo may be nil.
func NewCalibrationService(calibrator *Calibrator, store storage.ProfileStore, repo repository.CalibrationRepository) CalibrationService {
	return &calibrationService{
		calibrator: calibrator,
		store:      store,
		repository: repo,
	}
}

func (s *calibrationService) Calibrate(ctx context.Context, profileName string, sweep Sweep) (*Result, error) {
	if err := s.calibrator.Validate(sweep.Frequencies, sweep.AmpStartDB, sweep.AmpEndDB, sweep.AmpStepDB); err != nil {
		return nil, err
	}

	// Step 1: Open a history record
	sessionID := uuid.New()
	now := time.Now()
	s.record(func(repo repository.CalibrationRepository) error {
		return repo.Create(ctx, &models.CalibrationSession{
			ID:          sessionID.String(),
			ProfileName: profileName,
			Status:      models.SessionPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	})

	// Step 2: Run the sweep, reporting progress per frequency
	s.calibrator.OnFrequency(func(index, total int, _ models.ThresholdPoint) {
		progress := 10 + 80*(index+1)/total
		s.record(func(repo repository.CalibrationRepository) error {
			return repo.UpdateStatus(ctx, sessionID, models.SessionMeasuring, progress)
		})
	})
	defer s.calibrator.OnFrequency(nil)

	s.record(func(repo repository.CalibrationRepository) error {
		return repo.UpdateStatus(ctx, sessionID, models.SessionMeasuring, 10)
	})

	thresholds, err := s.calibrator.MeasureThresholds(ctx, sweep.Frequencies, sweep.AmpStartDB, sweep.AmpEndDB, sweep.AmpStepDB)
	if err != nil {
		s.fail(ctx, sessionID, err)
		return nil, err
	}

	// Step 3: Build and persist the profile
	p := profile.Build(thresholds, sweep.MaxGainDB)

	if err := s.store.Save(ctx, profileName, p); err != nil {
		err = fmt.Errorf("failed to save profile: %w", err)
		s.fail(ctx, sessionID, err)
		return nil, err
	}

	// Step 4: Store results and mark complete
	s.record(func(repo repository.CalibrationRepository) error {
		return repo.StoreResults(ctx, sessionID, thresholds, p)
	})
	s.record(func(repo repository.CalibrationRepository) error {
		return repo.UpdateStatus(ctx, sessionID, models.SessionCompleted, 100)
	})

	log.Info().
		Str("session_id", sessionID.String()).
		Str("profile", profileName).
		Int("frequencies", len(thresholds)).
		Msg("Calibration complete")

	return &Result{SessionID: sessionID.String(), Thresholds: thresholds, Profile: p}, nil
}

// record applies a history update. Failures are logged and otherwise ignored.
func (s *calibrationService) record(fn func(repository.CalibrationRepository) error) {
	if s.repository == nil {
		return
	}
	if err := fn(s.repository); err != nil {
		log.Warn().Err(err).Msg("Failed to update calibration history")
	}
}

func (s *calibrationService) fail(ctx context.Context, id uuid.UUID, cause error) {
	s.record(func(repo repository.CalibrationRepository) error {
		// the run may have been interrupted; the failure still gets written
		return repo.UpdateError(context.WithoutCancel(ctx), id, cause.Error())
	})
}
