package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/RMahshie/aurelius/internal/repository"
	"github.com/RMahshie/aurelius/pkg/models"
	"github.com/google/uuid"
)

// PostgresCalibrationRepository implements CalibrationRepository for PostgreSQL
type PostgresCalibrationRepository struct {
	db *sql.DB
}

// NewPostgresCalibrationRepository creates a new PostgreSQL calibration repository
func NewPostgresCalibrationRepository(db *sql.DB) repository.CalibrationRepository {
	return &PostgresCalibrationRepository{db: db}
}

const sessionColumns = `id, profile_name, status, progress, thresholds, profile, error_message, created_at, updated_at, completed_at`

// Create inserts a new calibration session
func (r *PostgresCalibrationRepository) Create(ctx context.Context, session *models.CalibrationSession) error {
	query := `
		INSERT INTO calibration_sessions (id, profile_name, status, progress, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		session.ID,
		session.ProfileName,
		session.Status,
		session.Progress,
		session.CreatedAt,
		session.UpdatedAt)

	return err
}

// GetByID retrieves a calibration session by ID
func (r *PostgresCalibrationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CalibrationSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM calibration_sessions WHERE id = $1`

	session, err := scanSession(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return session, err
}

// ListByProfile retrieves the most recent sessions of a profile, newest first
func (r *PostgresCalibrationRepository) ListByProfile(ctx context.Context, profileName string, limit int) ([]*models.CalibrationSession, error) {
	query := `SELECT ` + sessionColumns + `
		FROM calibration_sessions
		WHERE profile_name = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, profileName, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []*models.CalibrationSession{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// UpdateStatus updates the status and progress of a session
func (r *PostgresCalibrationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	query := `
		UPDATE calibration_sessions
		SET status = $1, progress = $2, updated_at = NOW(),
		    completed_at = CASE WHEN $1 = 'completed' THEN NOW() ELSE completed_at END
		WHERE id = $3`

	_, err := r.db.ExecContext(ctx, query, status, progress, id)
	return err
}

// UpdateError marks a session failed with a message
func (r *PostgresCalibrationRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	query := `
		UPDATE calibration_sessions
		SET status = 'failed', error_message = $1, updated_at = NOW()
		WHERE id = $2`

	_, err := r.db.ExecContext(ctx, query, errorMsg, id)
	return err
}

// StoreResults records the measured thresholds and the profile built from them
func (r *PostgresCalibrationRepository) StoreResults(ctx context.Context, id uuid.UUID, thresholds models.HearingThreshold, profile models.HearingProfile) error {
	thresholdData, err := json.Marshal(thresholds)
	if err != nil {
		return fmt.Errorf("failed to marshal thresholds: %w", err)
	}

	profileData, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	query := `
		UPDATE calibration_sessions
		SET thresholds = $1, profile = $2, updated_at = NOW()
		WHERE id = $3`

	_, err = r.db.ExecContext(ctx, query, string(thresholdData), string(profileData), id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*models.CalibrationSession, error) {
	var session models.CalibrationSession
	var thresholds, profile, errorMsg sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&session.ID,
		&session.ProfileName,
		&session.Status,
		&session.Progress,
		&thresholds,
		&profile,
		&errorMsg,
		&session.CreatedAt,
		&session.UpdatedAt,
		&completedAt)
	if err != nil {
		return nil, err
	}

	if thresholds.Valid {
		if err := json.Unmarshal([]byte(thresholds.String), &session.Thresholds); err != nil {
			return nil, fmt.Errorf("failed to unmarshal thresholds: %w", err)
		}
	}
	if profile.Valid {
		if err := json.Unmarshal([]byte(profile.String), &session.Profile); err != nil {
			return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
		}
	}
	if errorMsg.Valid {
		session.ErrorMsg = &errorMsg.String
	}
	if completedAt.Valid {
		session.CompletedAt = &completedAt.Time
	}

	return &session, nil
}
