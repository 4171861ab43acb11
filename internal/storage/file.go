package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/RMahshie/aurelius/pkg/models"
	"github.com/rs/zerolog/log"
)

// FileStore keeps profiles as JSON documents on the local filesystem.
// The default profile lives at the configured path; any other name is stored
// next to it as <base>.<name><ext>.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed profile store rooted at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// PathFor returns the document path used for a profile name
func (s *FileStore) PathFor(name string) string {
	name = profileName(name)
	if name == DefaultProfileName {
		return s.path
	}
	ext := filepath.Ext(s.path)
	return strings.TrimSuffix(s.path, ext) + "." + name + ext
}

// Save writes the profile document, replacing any previous version
func (s *FileStore) Save(_ context.Context, name string, profile models.HearingProfile) error {
	data, err := EncodeProfile(profile)
	if err != nil {
		return err
	}

	path := s.PathFor(name)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create profile directory: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write profile: %w", err)
	}

	log.Debug().Str("path", path).Int("points", len(profile)).Msg("Profile saved")
	return nil
}

// Load reads a profile document
func (s *FileStore) Load(_ context.Context, name string) (models.HearingProfile, error) {
	path := s.PathFor(name)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return DecodeProfile(data)
}
