// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/stratalaunch/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs once after DB setup and before the HTTP handler is built.
//
// Returning a non-nil error will abort startup and prevent the server from
// starting.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	cur := timeouts.Current()
	logger.Info("stratalaunch starting",
		zap.String("env", coreCfg.Env),
		zap.String("site_name", appCfg.SiteName),
		zap.String("database", deps.Conn.DatabaseName()),
		zap.Bool("metrics_enabled", appCfg.MetricsEnabled),
		zap.Strings("cors_allowed_origins", appCfg.CORSAllowedOrigins),
		zap.Duration("ping_timeout", cur.Ping),
		zap.Duration("db_op_timeout", cur.Short),
		zap.Duration("schema_timeout", cur.Schema),
	)
	return nil
}
