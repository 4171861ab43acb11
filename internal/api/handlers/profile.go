package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/aurelius/internal/equalizer"
	"github.com/RMahshie/aurelius/internal/profile"
	"github.com/RMahshie/aurelius/internal/repository"
	"github.com/RMahshie/aurelius/internal/storage"
	"github.com/RMahshie/aurelius/pkg/models"
)

// Explainer produces a plain-language description of a profile
type Explainer interface {
	ExplainResults(ctx context.Context, profile models.HearingProfile) (string, bool)
}

// URLSigner is implemented by stores that can hand out direct download links
type URLSigner interface {
	DownloadURL(ctx context.Context, name string) (string, error)
}

// ProfileHandler handles profile-related HTTP requests
type ProfileHandler struct {
	store     storage.ProfileStore
	repo      repository.CalibrationRepository
	explainer Explainer
}

// NewProfileHandler creates a new profile handler. repo and explainer may be
// nil, which disables the history and explanation endpoints.
func NewProfileHandler(store storage.ProfileStore, repo repository.CalibrationRepository, explainer Explainer) *ProfileHandler {
	return &ProfileHandler{
		store:     store,
		repo:      repo,
		explainer: explainer,
	}
}

func (h *ProfileHandler) load(ctx context.Context, name string) (models.HearingProfile, error) {
	p, err := h.store.Load(ctx, name)
	if errors.Is(err, storage.ErrProfileNotFound) {
		return nil, huma.Error404NotFound("Profile not found", err)
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load profile", err)
	}
	return p, nil
}

// GetProfile returns a stored profile
func (h *ProfileHandler) GetProfile(ctx context.Context, req *models.GetProfileRequest) (*models.GetProfileResponse, error) {
	log.Info().Str("profile", req.Name).Msg("Profile requested")

	p, err := h.load(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	resp := &models.GetProfileResponse{
		Body: models.GetProfileResponseBody{
			Name:   req.Name,
			Points: p.Points(),
		},
	}
	if signer, ok := h.store.(URLSigner); ok {
		url, err := signer.DownloadURL(ctx, req.Name)
		if err != nil {
			log.Warn().Err(err).Str("profile", req.Name).Msg("Failed to sign profile URL")
		} else {
			resp.Body.DownloadURL = url
		}
	}
	return resp, nil
}

// GetGainCurve returns the per-bin gains the equalizer would apply
func (h *ProfileHandler) GetGainCurve(ctx context.Context, req *models.GetGainCurveRequest) (*models.GetGainCurveResponse, error) {
	p, err := h.load(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	curve, err := equalizer.Prepare(p, req.BlockSize, req.SampleRate)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity("Profile cannot be applied", err)
	}

	bins := make([]models.GainBin, curve.Len())
	for k := range bins {
		bins[k] = models.GainBin{
			Frequency: curve.Frequency(k),
			GainDB:    curve.GainDB(k),
			Linear:    curve.At(k),
		}
	}

	return &models.GetGainCurveResponse{
		Body: models.GetGainCurveResponseBody{
			Name:       req.Name,
			BlockSize:  curve.BlockSize(),
			SampleRate: curve.SampleRate(),
			Bins:       bins,
		},
	}, nil
}

// SubmitThresholds builds a profile from thresholds measured elsewhere and stores it
func (h *ProfileHandler) SubmitThresholds(ctx context.Context, req *models.SubmitThresholdsRequest) (*models.SubmitThresholdsResponse, error) {
	seen := make(map[float64]bool, len(req.Body.Thresholds))
	for _, t := range req.Body.Thresholds {
		if t.Frequency <= 0 {
			return nil, huma.Error400BadRequest("Threshold frequencies must be positive", nil)
		}
		if seen[t.Frequency] {
			return nil, huma.Error400BadRequest("Each frequency may appear only once", nil)
		}
		seen[t.Frequency] = true
	}

	maxGain := profile.MaxGainDB
	if req.Body.MaxGainDB != nil {
		maxGain = *req.Body.MaxGainDB
	}
	thresholds := models.HearingThreshold(req.Body.Thresholds)
	p := profile.Build(thresholds, maxGain)

	if err := h.store.Save(ctx, req.Name, p); err != nil {
		return nil, huma.Error500InternalServerError("Failed to save profile", err)
	}
	h.recordSession(ctx, req.Name, thresholds, p)

	log.Info().Str("profile", req.Name).Int("points", len(p)).Msg("Profile built from submitted thresholds")
	return &models.SubmitThresholdsResponse{
		Body: models.GetProfileResponseBody{
			Name:   req.Name,
			Points: p.Points(),
		},
	}, nil
}

func (h *ProfileHandler) recordSession(ctx context.Context, name string, thresholds models.HearingThreshold, p models.HearingProfile) {
	if h.repo == nil {
		return
	}
	id := uuid.New()
	now := time.Now()
	err := h.repo.Create(ctx, &models.CalibrationSession{
		ID:          id.String(),
		ProfileName: name,
		Status:      models.SessionPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err == nil {
		err = h.repo.StoreResults(ctx, id, thresholds, p)
	}
	if err == nil {
		err = h.repo.UpdateStatus(ctx, id, models.SessionCompleted, 100)
	}
	if err != nil {
		log.Warn().Err(err).Str("profile", name).Msg("Failed to record submitted calibration")
	}
}

// GetExplanation returns a plain-language explanation of a profile
func (h *ProfileHandler) GetExplanation(ctx context.Context, req *models.GetExplanationRequest) (*models.GetExplanationResponse, error) {
	if h.explainer == nil {
		return nil, huma.Error503ServiceUnavailable("Guidance is not configured")
	}

	p, err := h.load(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if len(p) == 0 {
		return nil, huma.Error422UnprocessableEntity("Profile is empty")
	}

	resp := &models.GetExplanationResponse{}
	resp.Body.Explanation, resp.Body.Cached = h.explainer.ExplainResults(ctx, p)
	return resp, nil
}

// ListSessions returns calibration history for a profile, newest first
func (h *ProfileHandler) ListSessions(ctx context.Context, req *models.ListSessionsRequest) (*models.ListSessionsResponse, error) {
	if h.repo == nil {
		return nil, huma.Error503ServiceUnavailable("Calibration history is disabled (DATABASE_URL not set)")
	}

	sessions, err := h.repo.ListByProfile(ctx, req.Name, req.Limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list sessions", err)
	}

	resp := &models.ListSessionsResponse{}
	resp.Body.Sessions = sessions
	return resp, nil
}

// GetSession returns one recorded calibration session with its thresholds and profile
func (h *ProfileHandler) GetSession(ctx context.Context, req *models.GetSessionRequest) (*models.GetSessionResponse, error) {
	if h.repo == nil {
		return nil, huma.Error503ServiceUnavailable("Calibration history is disabled (DATABASE_URL not set)")
	}

	sessionID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid session ID", err)
	}

	session, err := h.repo.GetByID(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, huma.Error404NotFound("Session not found", err)
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to get session", err)
	}

	return &models.GetSessionResponse{Body: session}, nil
}
