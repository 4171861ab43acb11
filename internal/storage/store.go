package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/RMahshie/aurelius/pkg/models"
)

// ErrProfileNotFound is returned when no profile document exists under a name
var ErrProfileNotFound = errors.New("profile not found")

// DefaultProfileName is the name used when the caller does not pick one
const DefaultProfileName = "default"

// ProfileStore persists hearing profiles by name
type ProfileStore interface {
	Save(ctx context.Context, name string, profile models.HearingProfile) error
	Load(ctx context.Context, name string) (models.HearingProfile, error)
}

// EncodeProfile renders a profile as the indented JSON document shared by all backends
func EncodeProfile(profile models.HearingProfile) ([]byte, error) {
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeProfile parses a profile document
func DecodeProfile(data []byte) (models.HearingProfile, error) {
	var profile models.HearingProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return profile, nil
}

func profileName(name string) string {
	if name == "" {
		return DefaultProfileName
	}
	return name
}
