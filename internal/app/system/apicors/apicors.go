// Package apicors provides CORS middleware for the public signup API.
//
// The API has no cookies or credentials, so any origin may call it. Browsers
// send a preflight OPTIONS request before a JSON POST; the middleware answers
// it directly so the request never reaches a handler.
package apicors

import (
	"net/http"
	"strings"
)

const (
	allowMethods = "GET, POST, OPTIONS"
	allowHeaders = "Content-Type"
	maxAge       = "86400" // 24 hours
)

// Middleware returns CORS middleware that allows any origin.
//
// This middleware:
//   - Sets Access-Control-Allow-Origin: * on every response
//   - Allows the methods and headers the API uses
//   - Answers preflight OPTIONS requests with 200 and an empty body
//
// Usage in routes.go:
//
//	r.Use(apicors.Middleware())
//	r.Mount("/api", apiRoutes)
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			setCommon(w)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// MiddlewareWithOrigins returns CORS middleware that only allows specific origins.
// Use this once the marketing site has a fixed domain.
//
// Usage:
//
//	r.Use(apicors.MiddlewareWithOrigins("https://thetruthschool.com", "https://www.thetruthschool.com"))
func MiddlewareWithOrigins(allowedOrigins ...string) func(http.Handler) http.Handler {
	originSet := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		originSet[strings.TrimRight(o, "/")] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin != "" {
				if _, allowed := originSet[origin]; allowed {
					w.Header().Set("Access-Control-Allow-Origin", origin)
				}
				// If origin not allowed, don't set CORS headers (browser will block)
			}
			w.Header().Add("Vary", "Origin")
			setCommon(w)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// FromList picks Middleware when origins is empty or contains "*",
// otherwise MiddlewareWithOrigins.
func FromList(origins []string) func(http.Handler) http.Handler {
	var cleaned []string
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o == "*" {
			return Middleware()
		}
		if o != "" {
			cleaned = append(cleaned, o)
		}
	}
	if len(cleaned) == 0 {
		return Middleware()
	}
	return MiddlewareWithOrigins(cleaned...)
}

func setCommon(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Methods", allowMethods)
	w.Header().Set("Access-Control-Allow-Headers", allowHeaders)
	w.Header().Set("Access-Control-Max-Age", maxAge)
}
