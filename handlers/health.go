package handlers

import (
	"net/http"
	"time"

	"github.com/upb/log-ingest/utils"
	"go.uber.org/zap"
)

// Version is the build version reported by the status endpoint, set via -ldflags
var Version = "dev"

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// StatusResponse describes the running instance
type StatusResponse struct {
	Version        string `json:"version"`
	Environment    string `json:"environment"`
	StoredEntities int    `json:"stored_entities"`
	Uptime         string `json:"uptime"`
}

// StoreCounter reports how many logs are stored
type StoreCounter interface {
	StoredCount() int
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	store       StoreCounter
	environment string
	startedAt   time.Time
	logger      *zap.Logger
}

// NewHealthHandler creates a new HealthHandler. store may be nil before the
// log store is wired, in which case readiness fails.
func NewHealthHandler(store StoreCounter, environment string, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		store:       store,
		environment: environment,
		startedAt:   time.Now(),
		logger:      logger,
	}
}

// HandleHealth handles GET /healthz
// Always returns 200 while the process is serving
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// HandleReadiness handles GET /readyz
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	status := "ready"
	httpStatus := http.StatusOK

	if h.store == nil {
		checks["log_store"] = "not_initialized"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["log_store"] = "healthy"
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}

	if err := utils.WriteJSON(w, httpStatus, response); err != nil {
		h.logger.Error("failed to write readiness response", zap.Error(err))
	}
}

// HandleStatus handles GET /api/v1/status
func (h *HealthHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	stored := 0
	if h.store != nil {
		stored = h.store.StoredCount()
	}

	response := StatusResponse{
		Version:        Version,
		Environment:    h.environment,
		StoredEntities: stored,
		Uptime:         time.Since(h.startedAt).Round(time.Second).String(),
	}

	if err := utils.WriteOK(w, response); err != nil {
		h.logger.Error("failed to write status response", zap.Error(err))
	}
}
