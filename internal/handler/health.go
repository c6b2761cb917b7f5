package handler

import (
	"context"
	"net/http"
	"time"
)

// timestampLayout matches JavaScript's Date.toISOString
const timestampLayout = "2006-01-02T15:04:05.000Z"

// HealthChecker reports whether a dependency answers
type HealthChecker interface {
	HealthCheck(ctx context.Context) bool
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
}

// ReadyResponse is the readiness payload
type ReadyResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// HealthHandlerConfig holds dependencies for HealthHandler
type HealthHandlerConfig struct {
	Database     HealthChecker
	StartedAt    time.Time
	ReadyTimeout time.Duration

	// Now defaults to time.Now
	Now func() time.Time
}

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	db           HealthChecker
	startedAt    time.Time
	readyTimeout time.Duration
	now          func() time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(cfg HealthHandlerConfig) *HealthHandler {
	h := &HealthHandler{
		db:           cfg.Database,
		startedAt:    cfg.StartedAt,
		readyTimeout: cfg.ReadyTimeout,
		now:          cfg.Now,
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.startedAt.IsZero() {
		h.startedAt = h.now()
	}
	if h.readyTimeout <= 0 {
		h.readyTimeout = 2 * time.Second
	}
	return h
}

// Health handles GET /health. It answers 200 whatever the state of the
// database.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) error {
	now := h.now()
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: now.UTC().Format(timestampLayout),
		Uptime:    now.Sub(h.startedAt).Seconds(),
	})
	return nil
}

// Ready handles GET /health/ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) error {
	ctx, cancel := context.WithTimeout(r.Context(), h.readyTimeout)
	defer cancel()

	if h.db == nil || !h.db.HealthCheck(ctx) {
		WriteJSON(w, http.StatusServiceUnavailable, ReadyResponse{Status: "unavailable", Database: "down"})
		return nil
	}
	WriteJSON(w, http.StatusOK, ReadyResponse{Status: "ok", Database: "up"})
	return nil
}
