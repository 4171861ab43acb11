package api

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/aurelius/internal/api/handlers"
	"github.com/RMahshie/aurelius/internal/storage"
	"github.com/RMahshie/aurelius/pkg/models"
)

func TestRoutes(t *testing.T) {
	store := storage.NewFileStore(filepath.Join(t.TempDir(), "aurelius_profile.json"))
	require.NoError(t, store.Save(context.Background(), "default", models.HearingProfile{250: 20, 1000: 5, 8000: 15}))

	_, api := humatest.New(t)
	RegisterRoutes(api, handlers.NewProfileHandler(store, nil, nil))

	resp := api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"healthy"`)

	resp = api.Get("/api/profiles/default")
	require.Equal(t, http.StatusOK, resp.Code)
	var profile models.GetProfileResponseBody
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &profile))
	assert.Len(t, profile.Points, 3)

	resp = api.Get("/api/profiles/missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = api.Get("/api/profiles/default/curve?block_size=8&sample_rate=8000")
	require.Equal(t, http.StatusOK, resp.Code)
	var curve models.GetGainCurveResponseBody
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &curve))
	assert.Len(t, curve.Bins, 5)

	resp = api.Post("/api/profiles/left/thresholds", map[string]any{
		"thresholds": []map[string]any{
			{"frequency": 500, "threshold_db": -12, "heard": true},
		},
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	stored, err := store.Load(context.Background(), "left")
	require.NoError(t, err)
	assert.Equal(t, models.HearingProfile{500: 12}, stored)

	resp = api.Post("/api/profiles/right/thresholds", map[string]any{
		"thresholds": []map[string]any{
			{"frequency": 500, "threshold_db": -12, "heard": true},
		},
		"max_gain_db": 0,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	stored, err = store.Load(context.Background(), "right")
	require.NoError(t, err)
	assert.Equal(t, models.HearingProfile{500: 0}, stored)

	resp = api.Post("/api/profiles/left/thresholds", strings.NewReader(`{"thresholds": []}`))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	resp = api.Get("/api/sessions?profile=default")
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)

	resp = api.Get("/api/sessions/8c1b0f8e-2d6a-4f7e-9a55-3f0d2c9b7e11")
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}
