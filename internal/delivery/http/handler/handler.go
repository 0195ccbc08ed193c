package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/user/review-harvester/internal/delivery/http/response"
	"github.com/user/review-harvester/internal/entity"
	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

// ProgressSource reports the state of the run in progress.
type ProgressSource interface {
	Progress() entity.RunSummary
}

// HealthCheck pings one backing service.
type HealthCheck func(ctx context.Context) error

type Handler struct {
	progress ProgressSource
	checks   map[string]HealthCheck
	logger   *zap.Logger
}

// NewHandler creates the status handler. checks may be empty when the run
// uses only local files.
func NewHandler(progress ProgressSource, checks map[string]HealthCheck, logger *zap.Logger) *Handler {
	return &Handler{
		progress: progress,
		checks:   checks,
		logger:   logger.Named("status"),
	}
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	status := map[string]string{"status": "ok"}
	healthy := true
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Error("health check failed", zap.String("service", name), zap.Error(err))
			status[name] = "unhealthy"
			healthy = false
			continue
		}
		status[name] = "healthy"
	}

	if !healthy {
		status["status"] = "degraded"
		h.writeJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	h.writeJSON(w, http.StatusOK, status)
}

func (h *Handler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, response.NewStatusResponse(h.progress.Progress()))
}

func (h *Handler) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	h.writeJSONError(w, "Not found", http.StatusNotFound)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
