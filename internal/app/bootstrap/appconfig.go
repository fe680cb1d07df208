// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - Security headers
//
// AppConfig is passed to most lifecycle hooks, so any configuration needed
// during startup, request handling, or shutdown lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI            string        // MongoDB connection string; blank leaves the datastore unavailable
	MongoDatabase       string        // Database name within MongoDB (never taken from the URI)
	MongoMaxPoolSize    uint64        // Maximum connections in pool (default: 100)
	MongoMinPoolSize    uint64        // Minimum connections to keep warm (default: 0)
	MongoConnectTimeout time.Duration // Bound on a dial or ping (default: 5s)

	// Request handling
	DBOpTimeout    time.Duration // Bound on one request's datastore work (default: 5s)
	RequestTimeout time.Duration // Overall request deadline (default: 30s)

	// Site identity, used in API messages
	SiteName string

	// CORS origins allowed to call /api; empty or "*" allows any origin
	CORSAllowedOrigins []string

	// Prometheus /metrics endpoint
	MetricsEnabled bool
}
