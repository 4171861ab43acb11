package models

import (
	"time"
)

// Calibration session statuses
const (
	SessionPending   = "pending"
	SessionMeasuring = "measuring"
	SessionCompleted = "completed"
	SessionFailed    = "failed"
)

// CalibrationSession represents one recorded calibration run (for internal use)
type CalibrationSession struct {
	ID          string           `json:"id"`
	ProfileName string           `json:"profile_name"`
	Status      string           `json:"status"`
	Progress    int              `json:"progress"`
	Thresholds  HearingThreshold `json:"thresholds,omitempty"`
	Profile     HearingProfile   `json:"profile,omitempty"`
	ErrorMsg    *string          `json:"error_message,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

// AIInteraction represents a cached guidance prompt/answer pair
type AIInteraction struct {
	ID          string    `json:"id"`
	ProfileHash string    `json:"profile_hash"`
	Prompt      string    `json:"prompt"`
	Answer      string    `json:"answer"`
	ModelUsed   string    `json:"model_used"`
	CreatedAt   time.Time `json:"created_at"`
}
