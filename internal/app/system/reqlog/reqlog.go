// internal/app/system/reqlog/reqlog.go
package reqlog

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

// maxClientIDLen caps an inbound request id before it is trusted.
const maxClientIDLen = 64

type ctxKey int

const ctxKeyRequestID ctxKey = iota

// Config holds configuration for the request logging middleware.
type Config struct {
	// Logger receives one line per request.
	Logger *zap.Logger

	// ExcludePaths is a list of path prefixes that are not logged.
	// Common examples: "/metrics"
	ExcludePaths []string
}

// Middleware assigns every request an id, echoes it in the response and logs
// the outcome once the handler returns.
func Middleware(cfg Config) func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := clientRequestID(r)
			if requestID == "" {
				requestID = uuid.New().String()
			}
			w.Header().Set(HeaderRequestID, requestID)
			r = r.WithContext(context.WithValue(r.Context(), ctxKeyRequestID, requestID))

			for _, prefix := range cfg.ExcludePaths {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			fields := []zap.Field{
				zap.String("request_id", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("route", routePattern(r)),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("took", time.Since(start)),
				zap.String("remote_ip", r.RemoteAddr),
			}

			switch {
			case status >= 500:
				logger.Error("request failed", append(fields, zap.String("error_class", ErrorClass(status)))...)
			case status >= 400:
				logger.Info("request rejected", append(fields, zap.String("error_class", ErrorClass(status)))...)
			default:
				logger.Info("request", fields...)
			}
		})
	}
}

// FromContext returns the request id assigned by Middleware, or "".
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

// Field returns the request id as a zap field for handler logs.
func Field(r *http.Request) zap.Field {
	return zap.String("request_id", FromContext(r.Context()))
}

// ErrorClass buckets an error status for log filtering.
func ErrorClass(status int) string {
	switch {
	case status == http.StatusBadRequest:
		return "validation"
	case status == http.StatusNotFound:
		return "not_found"
	case status == http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case status == http.StatusRequestEntityTooLarge:
		return "too_large"
	case status >= 500:
		return "internal"
	case status >= 400:
		return "client_error"
	default:
		return ""
	}
}

func clientRequestID(r *http.Request) string {
	id := strings.TrimSpace(r.Header.Get(HeaderRequestID))
	if id == "" || len(id) > maxClientIDLen {
		return ""
	}
	for _, c := range id {
		if c < 0x21 || c > 0x7e {
			return ""
		}
	}
	return id
}

// routePattern returns the matched chi pattern, or "unknown" outside a router.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unknown"
}
