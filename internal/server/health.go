package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"

	"github.com/andrasnagy-data/authsvc/internal/components/auth"
)

type (
	// HealthSrvc handles business logic for health check functionality
	HealthSrvc struct {
		store auth.Repository
		now   func() time.Time
	}

	// HealthResponse represents the response structure for health check endpoint
	HealthResponse struct {
		Status          string    `json:"status"`
		Timestamp       time.Time `json:"timestamp"`
		CredentialStore bool      `json:"credentialStore"`
	}
)

// NewHealthHandler godoc
// @Summary Health check
// @Description Reports whether the credential file can be read and parsed.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func NewHealthHandler(srvc *HealthSrvc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := hlog.FromRequest(r)

		response, err := srvc.check(ctx)

		w.Header().Set("Content-Type", "application/json")

		if response.CredentialStore {
			logger.Debug().Msg("Credential store healthcheck ok")
			w.WriteHeader(http.StatusOK)
		} else {
			logger.Error().Err(err).Msg("Credential store healthcheck failed")
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		if err := json.NewEncoder(w).Encode(response); err != nil {
			logger.Error().Err(err).Msg("Failed to encode health check response")
		}
	}
}

func NewHealthSrvc(store auth.Repository) *HealthSrvc {
	return &HealthSrvc{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *HealthSrvc) check(ctx context.Context) (HealthResponse, error) {
	err := s.store.Ping(ctx)

	response := HealthResponse{
		Status:          "serving",
		Timestamp:       s.now(),
		CredentialStore: err == nil,
	}
	if err != nil {
		response.Status = "not serving"
	}
	return response, err
}
