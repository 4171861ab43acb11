package commands

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/aurelius/internal/config"
	"github.com/RMahshie/aurelius/internal/guidance"
	"github.com/RMahshie/aurelius/internal/repository"
	"github.com/RMahshie/aurelius/internal/repository/postgres"
	"github.com/RMahshie/aurelius/internal/storage"
)

// openStore builds the configured profile backend. The returned close function
// is never nil.
func openStore(ctx context.Context, cfg *config.Config) (storage.ProfileStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Profile.Backend {
	case "s3":
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    cfg.AWS.S3Bucket,
			Endpoint:  cfg.AWS.S3Endpoint,
			Region:    cfg.AWS.Region,
			AccessKey: cfg.AWS.AccessKeyID,
			SecretKey: cfg.AWS.SecretAccessKey,
		})
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	case "badger":
		store, err := storage.NewBadgerStore(storage.BadgerOptions{Dir: cfg.Profile.BadgerDir})
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	default:
		return storage.NewFileStore(cfg.Profile.Path), noop, nil
	}
}

// history bundles the optional database-backed repositories
type history struct {
	db           *sql.DB
	sessions     repository.CalibrationRepository
	interactions repository.AIInteractionRepository
}

func (h *history) Close() error {
	if h.db == nil {
		return nil
	}
	return h.db.Close()
}

// openHistory connects to DATABASE_URL when set. An empty URL yields a history
// with nil repositories.
func openHistory(ctx context.Context, cfg *config.Config) (*history, error) {
	if cfg.Database.URL == "" {
		log.Debug().Msg("DATABASE_URL not set, calibration history disabled")
		return &history{}, nil
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &history{
		db:           db,
		sessions:     postgres.NewPostgresCalibrationRepository(db),
		interactions: postgres.NewPostgresAIInteractionRepository(db),
	}, nil
}

func newGuide(cfg *config.Config, h *history) *guidance.Guide {
	gen := guidance.NewOpenAIGenerator(guidance.OpenAIConfig{
		BaseURL: cfg.Guidance.BaseURL,
		Model:   cfg.Guidance.Model,
		APIKey:  cfg.Guidance.APIKey,
	})
	return guidance.NewGuide(gen, cfg.Guidance.Model, h.interactions)
}
