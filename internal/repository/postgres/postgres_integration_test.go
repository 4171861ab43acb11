package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgContainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/RMahshie/aurelius/internal/repository"
	"github.com/RMahshie/aurelius/pkg/models"
)

// setupDatabase starts a PostgreSQL container and applies the schema
func setupDatabase(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	container, err := pgContainer.Run(ctx,
		"postgres:15-alpine",
		pgContainer.WithDatabase("aurelius_test"),
		pgContainer.WithUsername("testuser"),
		pgContainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, container.Terminate(ctx))
	})

	dbURL, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(ctx, db))
	// applying twice is harmless
	require.NoError(t, Migrate(ctx, db))
	return db
}

func TestCalibrationRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := setupDatabase(t)
	repo := NewPostgresCalibrationRepository(db)
	ctx := context.Background()

	id := uuid.New()
	now := time.Now()
	require.NoError(t, repo.Create(ctx, &models.CalibrationSession{
		ID:          id.String(),
		ProfileName: "default",
		Status:      models.SessionPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}))

	require.NoError(t, repo.UpdateStatus(ctx, id, models.SessionMeasuring, 40))
	session, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.SessionMeasuring, session.Status)
	assert.Equal(t, 40, session.Progress)
	assert.Nil(t, session.CompletedAt)

	thresholds := models.HearingThreshold{
		{Frequency: 250, ThresholdDB: -20, Heard: true},
		{Frequency: 8000, ThresholdDB: 0, Heard: false},
	}
	profile := models.HearingProfile{250: 20, 8000: 0}
	require.NoError(t, repo.StoreResults(ctx, id, thresholds, profile))
	require.NoError(t, repo.UpdateStatus(ctx, id, models.SessionCompleted, 100))

	session, err = repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, session.Status)
	assert.Equal(t, thresholds, session.Thresholds)
	assert.Equal(t, profile, session.Profile)
	assert.NotNil(t, session.CompletedAt)

	failed := uuid.New()
	require.NoError(t, repo.Create(ctx, &models.CalibrationSession{
		ID:          failed.String(),
		ProfileName: "default",
		Status:      models.SessionPending,
		CreatedAt:   now.Add(time.Second),
		UpdatedAt:   now.Add(time.Second),
	}))
	require.NoError(t, repo.UpdateError(ctx, failed, "audio device unavailable"))

	sessions, err := repo.ListByProfile(ctx, "default", 10)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, failed.String(), sessions[0].ID)
	assert.Equal(t, models.SessionFailed, sessions[0].Status)
	require.NotNil(t, sessions[0].ErrorMsg)
	assert.Equal(t, "audio device unavailable", *sessions[0].ErrorMsg)

	sessions, err = repo.ListByProfile(ctx, "other", 10)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAIInteractionRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := setupDatabase(t)
	repo := NewPostgresAIInteractionRepository(db)
	ctx := context.Background()

	_, err := repo.GetAIInteraction(ctx, "abc", "llama3")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.CreateAIInteraction(ctx, &models.AIInteraction{
		ID:          uuid.New().String(),
		ProfileHash: "abc",
		Prompt:      "explain",
		Answer:      "Your profile boosts high frequencies.",
		ModelUsed:   "llama3",
		CreatedAt:   time.Now(),
	}))

	got, err := repo.GetAIInteraction(ctx, "abc", "llama3")
	require.NoError(t, err)
	assert.Equal(t, "Your profile boosts high frequencies.", got.Answer)

	_, err = repo.GetAIInteraction(ctx, "abc", "gpt-4o-mini")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
