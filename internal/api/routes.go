package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/RMahshie/aurelius/internal/api/handlers"
	"github.com/RMahshie/aurelius/pkg/models"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// RegisterRoutes sets up all API routes
func RegisterRoutes(api huma.API, profileHandler *handlers.ProfileHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the service",
	}, func(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
		resp := &models.HealthResponse{}
		resp.Body.Status = "healthy"
		resp.Body.Version = Version
		resp.Body.Time = time.Now()
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "getProfile",
		Method:      http.MethodGet,
		Path:        "/api/profiles/{name}",
		Summary:     "Get a hearing profile",
		Description: "Returns the compensation gain stored for each calibration frequency",
		Tags:        []string{"Profiles"},
	}, profileHandler.GetProfile)

	huma.Register(api, huma.Operation{
		OperationID: "getGainCurve",
		Method:      http.MethodGet,
		Path:        "/api/profiles/{name}/curve",
		Summary:     "Get the equalizer gain curve",
		Description: "Returns the per-bin gains the live equalizer applies for a block size and sample rate",
		Tags:        []string{"Profiles"},
	}, profileHandler.GetGainCurve)

	huma.Register(api, huma.Operation{
		OperationID:   "submitThresholds",
		Method:        http.MethodPost,
		Path:          "/api/profiles/{name}/thresholds",
		Summary:       "Submit measured thresholds",
		Description:   "Builds a profile from thresholds measured by a remote client and stores it",
		Tags:          []string{"Profiles"},
		DefaultStatus: http.StatusCreated,
	}, profileHandler.SubmitThresholds)

	huma.Register(api, huma.Operation{
		OperationID: "getExplanation",
		Method:      http.MethodGet,
		Path:        "/api/profiles/{name}/explanation",
		Summary:     "Explain a profile",
		Description: "Returns an AI-generated, non-medical explanation of a profile",
		Tags:        []string{"Guidance"},
	}, profileHandler.GetExplanation)

	huma.Register(api, huma.Operation{
		OperationID: "listSessions",
		Method:      http.MethodGet,
		Path:        "/api/sessions",
		Summary:     "List calibration history",
		Description: "Returns recorded calibration sessions of a profile, newest first",
		Tags:        []string{"History"},
	}, profileHandler.ListSessions)

	huma.Register(api, huma.Operation{
		OperationID: "getSession",
		Method:      http.MethodGet,
		Path:        "/api/sessions/{id}",
		Summary:     "Get a calibration session",
		Description: "Returns one recorded calibration session with its thresholds and resulting profile",
		Tags:        []string{"History"},
	}, profileHandler.GetSession)
}
