package models

import (
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// GetProfileRequest represents a request to read a stored profile
type GetProfileRequest struct {
	Name string `path:"name" doc:"Profile name"`
}

// GetProfileResponseBody is the body of the profile response
type GetProfileResponseBody struct {
	Name        string           `json:"name" doc:"Profile name"`
	Points      []FrequencyPoint `json:"points" doc:"Compensation gain per calibration frequency"`
	DownloadURL string           `json:"download_url,omitempty" doc:"Pre-signed URL of the stored document (s3 backend only)"`
}

// GetProfileResponse represents a stored profile
type GetProfileResponse struct {
	Body GetProfileResponseBody
}

// GetGainCurveRequest represents a request to compute the per-bin gain curve of a profile
type GetGainCurveRequest struct {
	Name       string `path:"name" doc:"Profile name"`
	BlockSize  int    `query:"block_size" default:"1024" minimum:"2" maximum:"65536" doc:"Transform length in samples"`
	SampleRate int    `query:"sample_rate" default:"44100" minimum:"8000" maximum:"192000" doc:"Sample rate in Hz"`
}

// GainBin is one bin of a computed gain curve
type GainBin struct {
	Frequency float64 `json:"frequency" doc:"Bin center frequency in Hz"`
	GainDB    float64 `json:"gain_db" doc:"Interpolated gain in dB"`
	Linear    float64 `json:"linear" doc:"Linear amplitude multiplier"`
}

// GetGainCurveResponseBody is the body of the gain curve response
type GetGainCurveResponseBody struct {
	Name       string    `json:"name" doc:"Profile name"`
	BlockSize  int       `json:"block_size" doc:"Transform length in samples"`
	SampleRate int       `json:"sample_rate" doc:"Sample rate in Hz"`
	Bins       []GainBin `json:"bins" doc:"Gain per frequency bin"`
}

// GetGainCurveResponse represents the computed gain curve
type GetGainCurveResponse struct {
	Body GetGainCurveResponseBody
}

// SubmitThresholdsRequest represents measured thresholds uploaded by a remote calibration client
type SubmitThresholdsRequest struct {
	Name string `path:"name" doc:"Profile name"`
	Body struct {
		Thresholds []ThresholdPoint `json:"thresholds" minItems:"1" required:"true" doc:"Measured thresholds"`
		MaxGainDB  *float64         `json:"max_gain_db,omitempty" minimum:"0" maximum:"30" doc:"Gain cap in dB (default 30)"`
	}
}

// SubmitThresholdsResponse returns the profile built from the thresholds
type SubmitThresholdsResponse struct {
	Body GetProfileResponseBody
}

// GetExplanationRequest represents a request for a plain-language profile explanation
type GetExplanationRequest struct {
	Name string `path:"name" doc:"Profile name"`
}

// GetExplanationResponse represents the generated explanation
type GetExplanationResponse struct {
	Body struct {
		Explanation string `json:"explanation" doc:"AI-generated explanation (not medical advice)"`
		Cached      bool   `json:"cached" doc:"Whether the explanation was cached"`
	}
}

// ListSessionsRequest represents a request to list calibration history
type ListSessionsRequest struct {
	Name  string `query:"profile" default:"default" doc:"Profile name"`
	Limit int    `query:"limit" default:"20" minimum:"1" maximum:"100" doc:"Maximum sessions to return"`
}

// ListSessionsResponse represents calibration history, newest first
type ListSessionsResponse struct {
	Body struct {
		Sessions []*CalibrationSession `json:"sessions" doc:"Calibration sessions"`
	}
}

// GetSessionRequest represents a request for one recorded calibration session
type GetSessionRequest struct {
	ID string `path:"id" doc:"Calibration session ID"`
}

// GetSessionResponse represents one calibration session
type GetSessionResponse struct {
	Body *CalibrationSession
}
