package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/RMahshie/aurelius/internal/repository"
	"github.com/RMahshie/aurelius/pkg/models"
)

// PostgresAIInteractionRepository implements AIInteractionRepository for PostgreSQL
type PostgresAIInteractionRepository struct {
	db *sql.DB
}

// NewPostgresAIInteractionRepository creates a new PostgreSQL guidance cache
func NewPostgresAIInteractionRepository(db *sql.DB) repository.AIInteractionRepository {
	return &PostgresAIInteractionRepository{db: db}
}

// CreateAIInteraction stores a generated answer
func (r *PostgresAIInteractionRepository) CreateAIInteraction(ctx context.Context, interaction *models.AIInteraction) error {
	query := `
		INSERT INTO ai_interactions (id, profile_hash, prompt, answer, model_used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		interaction.ID,
		interaction.ProfileHash,
		interaction.Prompt,
		interaction.Answer,
		interaction.ModelUsed,
		interaction.CreatedAt)

	return err
}

// GetAIInteraction returns the newest answer generated for a profile hash by a model
func (r *PostgresAIInteractionRepository) GetAIInteraction(ctx context.Context, profileHash, model string) (*models.AIInteraction, error) {
	query := `
		SELECT id, profile_hash, prompt, answer, model_used, created_at
		FROM ai_interactions
		WHERE profile_hash = $1 AND model_used = $2
		ORDER BY created_at DESC
		LIMIT 1`

	var interaction models.AIInteraction
	err := r.db.QueryRowContext(ctx, query, profileHash, model).Scan(
		&interaction.ID,
		&interaction.ProfileHash,
		&interaction.Prompt,
		&interaction.Answer,
		&interaction.ModelUsed,
		&interaction.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &interaction, nil
}
