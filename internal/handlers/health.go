// Package handlers provides the HTTP surface of the ticket service: the
// member-data proxy, ticket intake, and health/metrics endpoints.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Jimmeey2323/smart-ticket-manager/internal/config"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/constants"
	"github.com/Jimmeey2323/smart-ticket-manager/internal/storage"
)

// HealthCheckTimeout is the default timeout for health check operations.
const HealthCheckTimeout = 5 * time.Second

// HealthStatus represents the health status of a component.
type HealthStatus string

const (
	// StatusHealthy indicates the component is healthy.
	StatusHealthy HealthStatus = "healthy"
	// StatusUnhealthy indicates the component is unhealthy.
	StatusUnhealthy HealthStatus = "unhealthy"
	// StatusDegraded indicates the component has degraded functionality.
	StatusDegraded HealthStatus = "degraded"
)

// HealthResponse represents the overall health check response.
type HealthResponse struct {
	Status     HealthStatus               `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Uptime     string                     `json:"uptime,omitempty"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// ComponentHealth represents the health of an individual component.
type ComponentHealth struct {
	Status      HealthStatus `json:"status"`
	Message     string       `json:"message,omitempty"`
	LastChecked time.Time    `json:"last_checked"`
}

// ReadinessResponse represents the readiness check response.
type ReadinessResponse struct {
	Ready      bool                       `json:"ready"`
	Timestamp  time.Time                  `json:"timestamp"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// HealthHandler provides health check and monitoring endpoints.
type HealthHandler struct {
	config    *config.Config
	store     storage.TicketStore
	logger    *logrus.Logger
	startTime time.Time
}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler(
	cfg *config.Config,
	store storage.TicketStore,
	logger *logrus.Logger,
) *HealthHandler {
	return &HealthHandler{
		config:    cfg,
		store:     store,
		logger:    logger,
		startTime: time.Now(),
	}
}

// Health returns overall service health including component checks.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), HealthCheckTimeout)
	defer cancel()

	components := map[string]ComponentHealth{
		"store":      h.checkStore(ctx),
		"platform":   h.checkPlatformConfig(),
		"classifier": h.checkClassifierConfig(),
	}

	status := StatusHealthy
	for _, component := range components {
		if component.Status == StatusUnhealthy {
			status = StatusUnhealthy
			break
		}
		if component.Status == StatusDegraded {
			status = StatusDegraded
		}
	}

	resp := HealthResponse{
		Status:     status,
		Timestamp:  time.Now(),
		Uptime:     time.Since(h.startTime).String(),
		Components: components,
	}

	code := http.StatusOK
	if status == StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	h.writeJSON(w, resp, code)
}

// Liveness reports that the process is running.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, map[string]string{"status": "alive"}, http.StatusOK)
}

// Readiness reports whether the service can handle traffic.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), HealthCheckTimeout)
	defer cancel()

	storeHealth := h.checkStore(ctx)
	ready := storeHealth.Status != StatusUnhealthy

	resp := ReadinessResponse{
		Ready:     ready,
		Timestamp: time.Now(),
		Components: map[string]ComponentHealth{
			"store": storeHealth,
		},
	}

	code := http.StatusOK
	if !ready {
		code = http.StatusServiceUnavailable
	}
	h.writeJSON(w, resp, code)
}

// checkStore pings the ticket store.
func (h *HealthHandler) checkStore(ctx context.Context) ComponentHealth {
	if err := h.store.Ping(ctx); err != nil {
		return ComponentHealth{
			Status:      StatusUnhealthy,
			Message:     err.Error(),
			LastChecked: time.Now(),
		}
	}
	return ComponentHealth{Status: StatusHealthy, LastChecked: time.Now()}
}

// checkPlatformConfig reports whether the member platform is usable.
// Missing credentials degrade member features rather than failing the
// service, so the component reports degraded, not unhealthy.
func (h *HealthHandler) checkPlatformConfig() ComponentHealth {
	if !h.config.IsMomenceConfigured() {
		return ComponentHealth{
			Status:      StatusDegraded,
			Message:     "member platform credentials not configured",
			LastChecked: time.Now(),
		}
	}
	return ComponentHealth{Status: StatusHealthy, LastChecked: time.Now()}
}

// checkClassifierConfig reports whether live classification is available.
func (h *HealthHandler) checkClassifierConfig() ComponentHealth {
	if h.config.Classifier.APIKey == "" {
		return ComponentHealth{
			Status:      StatusDegraded,
			Message:     "classifier API key not configured, routing uses fallback",
			LastChecked: time.Now(),
		}
	}
	return ComponentHealth{Status: StatusHealthy, LastChecked: time.Now()}
}

// writeJSON writes a JSON response with the given status code.
func (h *HealthHandler) writeJSON(w http.ResponseWriter, v interface{}, code int) {
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.WithError(err).Error("Failed to encode health response")
	}
}
