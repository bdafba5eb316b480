package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/jobly/internal/repository"
)

// HealthHandler reports whether the process and its storage are reachable.
type HealthHandler struct {
	db     repository.Pinger
	logger *slog.Logger
}

// NewHealthHandler accepts a nil pinger, in which case only liveness is
// reported.
func NewHealthHandler(db repository.Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

// HandleHealth answers {"status": "ok"} or 503 {"status": "unavailable"}.
//
// HTTP: GET /healthz
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			h.logger.Error("health check failed", slog.String("error", err.Error()))
			WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
