package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/court-service/internal/api/shared"
	"github.com/phrazzld/court-service/internal/platform/logger"
	"github.com/phrazzld/court-service/internal/redact"
)

// ServiceName is reported by the root and health endpoints.
const ServiceName = "court-service"

const healthPingTimeout = 2 * time.Second

// Pinger reports whether a backing dependency is reachable. *sql.DB
// implements it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler serves the root and health endpoints.
type HealthHandler struct {
	version string
	db      Pinger
}

// NewHealthHandler creates a HealthHandler. db may be nil, in which case the
// health check reports the process only.
func NewHealthHandler(version string, db Pinger) *HealthHandler {
	return &HealthHandler{version: version, db: db}
}

// Root handles GET / requests.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
		"service": "Court Service",
		"version": h.version,
		"status":  "running",
	})
}

// Health handles GET /health requests.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			logger.FromContextOrDefault(r.Context(), slog.Default()).
				Warn("health check failed", slog.String("error", redact.Error(err)))
			shared.RespondWithJSON(w, r, http.StatusServiceUnavailable, map[string]string{
				"status":  "unhealthy",
				"service": ServiceName,
			})
			return
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": ServiceName,
	})
}
