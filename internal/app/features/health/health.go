// internal/app/features/health/health.go
package health

import (
	"context"
	"net/http"

	"github.com/dalemusser/stratalaunch/internal/app/system/jsonutil"
	"github.com/dalemusser/stratalaunch/internal/app/system/metrics"
	"github.com/dalemusser/stratalaunch/internal/app/system/reqlog"
	"github.com/dalemusser/stratalaunch/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Pinger reports whether the datastore is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler provides health check endpoints.
type Handler struct {
	siteName string
	db       Pinger
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewHandler creates a new health check Handler.
func NewHandler(siteName string, db Pinger, m *metrics.Metrics, logger *zap.Logger) *Handler {
	return &Handler{
		siteName: siteName,
		db:       db,
		metrics:  m,
		logger:   logger,
	}
}

// Response represents the health check response.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Routes returns a chi.Router with health check routes mounted.
// Provides /health (liveness), /health/ready, and /health/live.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Check)
	r.Get("/ready", h.Ready)
	r.Get("/live", h.Live)
	return r
}

// Check reports that the process is serving. It never touches the datastore,
// so it answers 200 even when MongoDB is down or unconfigured.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	jsonutil.OK(w, Response{
		Status:  "healthy",
		Message: h.siteName + " API is running",
	})
}

// Ready checks if the service can reach its datastore.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Ping(), h.logger, "health.ready")
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.metrics.DatabaseAvailable(false)
		h.logger.Warn("readiness check failed", reqlog.Field(r), zap.Error(err))
		jsonutil.JSON(w, http.StatusServiceUnavailable, Response{Status: "not ready"})
		return
	}

	h.metrics.DatabaseAvailable(true)
	jsonutil.OK(w, Response{Status: "ready"})
}

// Live checks if the service is alive.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	jsonutil.OK(w, Response{Status: "alive"})
}
