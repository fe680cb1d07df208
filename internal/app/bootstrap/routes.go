// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	feedbackfeature "github.com/dalemusser/stratalaunch/internal/app/features/feedback"
	healthfeature "github.com/dalemusser/stratalaunch/internal/app/features/health"
	newsletterfeature "github.com/dalemusser/stratalaunch/internal/app/features/newsletter"
	statsfeature "github.com/dalemusser/stratalaunch/internal/app/features/stats"
	waitlistfeature "github.com/dalemusser/stratalaunch/internal/app/features/waitlist"
	"github.com/dalemusser/stratalaunch/internal/app/system/apicors"
	"github.com/dalemusser/stratalaunch/internal/app/system/jsonutil"
	"github.com/dalemusser/stratalaunch/internal/app/system/reqlog"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB setup, and Startup have completed.
//
// Layout:
//   - /api/health, /api/health/ready, /api/health/live
//   - /api/waitlist, /api/newsletter, /api/feedback (POST)
//   - /api/stats (GET)
//   - /metrics (when metrics_enabled)
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────────
	// Global Middleware (applies to ALL routes)
	// ─────────────────────────────────────────────────────────────────────────────

	r.Use(chimw.RealIP)

	// Request id + one log line per request.
	r.Use(reqlog.Middleware(reqlog.Config{
		Logger:       logger,
		ExcludePaths: []string{"/metrics"},
	}))

	r.Use(chimw.Recoverer)

	// Request timeout middleware: prevents requests from hanging indefinitely.
	r.Use(chimw.Timeout(requestTimeout(appCfg)))

	// Security headers middleware: adds X-Frame-Options, X-Content-Type-Options, etc.
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// Request count and latency by route.
	r.Use(deps.Metrics.Middleware)

	r.Mount("/api", buildAPIRouter(appCfg, deps, logger))

	if appCfg.MetricsEnabled && deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
		logger.Info("metrics endpoint mounted", zap.String("path", "/metrics"))
	}

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	return r, nil
}

// buildAPIRouter mounts every feature under /api. CORS is applied here so
// preflight requests are answered before route matching.
func buildAPIRouter(appCfg AppConfig, deps DBDeps, logger *zap.Logger) chi.Router {
	api := chi.NewRouter()
	api.Use(apicors.FromList(appCfg.CORSAllowedOrigins))

	healthHandler := healthfeature.NewHandler(appCfg.SiteName, deps.Conn, deps.Metrics, logger)
	api.Mount("/health", healthfeature.Routes(healthHandler))

	waitlistHandler := waitlistfeature.NewHandler(deps.Conn, deps.Metrics, logger)
	api.Mount("/waitlist", waitlistfeature.Routes(waitlistHandler))

	newsletterHandler := newsletterfeature.NewHandler(appCfg.SiteName, deps.Conn, deps.Metrics, logger)
	api.Mount("/newsletter", newsletterfeature.Routes(newsletterHandler))

	feedbackHandler := feedbackfeature.NewHandler(deps.Conn, deps.Metrics, logger)
	api.Mount("/feedback", feedbackfeature.Routes(feedbackHandler))

	statsHandler := statsfeature.NewHandler(deps.Conn, deps.Metrics, logger)
	api.Mount("/stats", statsfeature.Routes(statsHandler))

	api.NotFound(notFound)
	api.MethodNotAllowed(methodNotAllowed)

	return api
}

func requestTimeout(appCfg AppConfig) time.Duration {
	if appCfg.RequestTimeout > 0 {
		return appCfg.RequestTimeout
	}
	return 30 * time.Second
}

func notFound(w http.ResponseWriter, r *http.Request) {
	jsonutil.NotFound(w, "Not found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	jsonutil.MethodNotAllowed(w, "Method not allowed")
}
