package storage

import (
	"context"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/aurelius/pkg/models"
)

const badgerKeyPrefix = "profile:"

// BadgerStore keeps profiles in an embedded BadgerDB
type BadgerStore struct {
	db *badger.DB
}

// BadgerOptions configures the BadgerDB store
type BadgerOptions struct {
	// Dir is required unless InMemory is set.
	Dir      string
	InMemory bool
}

// NewBadgerStore opens (or creates) the profile database
func NewBadgerStore(opts BadgerOptions) (*BadgerStore, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("BADGER_DIR is required for the badger profile backend")
	}
	dbOpts := badger.DefaultOptions(opts.Dir).WithLogger(badgerLogger{})
	if opts.InMemory {
		dbOpts = dbOpts.WithInMemory(true)
	}
	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Save stores the profile document under its name
func (s *BadgerStore) Save(_ context.Context, name string, profile models.HearingProfile) error {
	data, err := EncodeProfile(profile)
	if err != nil {
		return err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(badgerKeyPrefix+profileName(name)), data)
	})
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// Load reads the profile document stored under name
func (s *BadgerStore) Load(_ context.Context, name string) (models.HearingProfile, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerKeyPrefix + profileName(name)))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, profileName(name))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return DecodeProfile(data)
}

// Close releases the database
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// badgerLogger routes badger warnings and errors through zerolog
type badgerLogger struct{}

func (badgerLogger) Errorf(f string, v ...interface{})   { log.Error().Str("component", "badger").Msgf(f, v...) }
func (badgerLogger) Warningf(f string, v ...interface{}) { log.Warn().Str("component", "badger").Msgf(f, v...) }
func (badgerLogger) Infof(string, ...interface{})        {}
func (badgerLogger) Debugf(string, ...interface{})       {}
