package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Thilas/plex-betaseries-webhook/internal/healthcheck"
	"github.com/sirupsen/logrus"
)

// HealthHandler serves the health+json liveness endpoint
type HealthHandler struct {
	health *healthcheck.HealthCheck
	logger *logrus.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(health *healthcheck.HealthCheck, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{health: health, logger: logger}
}

// ServeHTTP handles the health check endpoint: HTTP 200 for pass, 299 for
// warn, 503 for fail
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := h.health.Get(r.Context())

	statusCode := http.StatusOK
	switch response.Status {
	case healthcheck.StatusWarn:
		statusCode = 299
	case healthcheck.StatusFail:
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/health+json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.WithError(err).Error("Failed to encode health response")
	}
}
