package commands

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/aurelius/internal/config"
	"github.com/RMahshie/aurelius/internal/storage"
	"github.com/RMahshie/aurelius/pkg/models"
)

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name    string
		backend string
		want    any
	}{
		{name: "file", backend: "file", want: &storage.FileStore{}},
		{name: "badger", backend: "badger", want: &storage.BadgerStore{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &config.Config{}
			c.Profile.Backend = tt.backend
			c.Profile.Path = filepath.Join(dir, tt.name, "aurelius_profile.json")
			c.Profile.BadgerDir = filepath.Join(dir, tt.name, "badger")

			store, closeStore, err := openStore(ctx, c)
			require.NoError(t, err)
			defer func() { assert.NoError(t, closeStore()) }()
			assert.IsType(t, tt.want, store)

			require.NoError(t, store.Save(ctx, "default", models.HearingProfile{1000: 5}))
			p, err := store.Load(ctx, "default")
			require.NoError(t, err)
			assert.Equal(t, models.HearingProfile{1000: 5}, p)
		})
	}
}

func TestOpenStore_S3RequiresBucket(t *testing.T) {
	c := &config.Config{}
	c.Profile.Backend = "s3"

	_, closeStore, err := openStore(context.Background(), c)
	assert.Error(t, err)
	assert.NotNil(t, closeStore)
}

func TestOpenHistory_Disabled(t *testing.T) {
	h, err := openHistory(context.Background(), &config.Config{})
	require.NoError(t, err)
	assert.Nil(t, h.sessions)
	assert.Nil(t, h.interactions)
	assert.NoError(t, h.Close())
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"calibrate", "run", "serve", "devices", "profile"} {
		assert.True(t, names[want], "missing %s command", want)
	}
}
