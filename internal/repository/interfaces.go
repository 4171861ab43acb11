package repository

import (
	"context"
	"errors"

	"github.com/RMahshie/aurelius/pkg/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("record not found")

// CalibrationRepository defines the interface for calibration history operations
type CalibrationRepository interface {
	Create(ctx context.Context, session *models.CalibrationSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.CalibrationSession, error)
	ListByProfile(ctx context.Context, profileName string, limit int) ([]*models.CalibrationSession, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error
	UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error
	StoreResults(ctx context.Context, id uuid.UUID, thresholds models.HearingThreshold, profile models.HearingProfile) error
}

// AIInteractionRepository defines the interface for cached guidance answers
type AIInteractionRepository interface {
	CreateAIInteraction(ctx context.Context, interaction *models.AIInteraction) error
	GetAIInteraction(ctx context.Context, profileHash, model string) (*models.AIInteraction, error)
}
