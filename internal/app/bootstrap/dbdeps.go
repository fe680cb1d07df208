// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/stratalaunch/internal/app/system/dbconn"
	"github.com/dalemusser/stratalaunch/internal/app/system/metrics"
)

// DBDeps holds database and backend dependencies for this WAFFLE app.
//
// This struct is created in ConnectDB and passed to subsequent lifecycle
// hooks: EnsureSchema, Startup, BuildHandler, and Shutdown.
//
// Conn is never nil. It dials MongoDB lazily, so a DBDeps exists even when
// the database is unreachable or unconfigured.
type DBDeps struct {
	// Shared MongoDB connection accessor
	Conn *dbconn.Accessor

	// Prometheus collectors; nil when metrics are disabled
	Metrics *metrics.Metrics
}
