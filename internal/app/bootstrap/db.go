// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"errors"

	"github.com/dalemusser/stratalaunch/internal/app/system/dbconn"
	"github.com/dalemusser/stratalaunch/internal/app/system/indexes"
	"github.com/dalemusser/stratalaunch/internal/app/system/metrics"
	"github.com/dalemusser/stratalaunch/internal/app/system/timeouts"
	"github.com/dalemusser/stratalaunch/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ConnectDB builds the backend dependencies.
//
// It does not dial MongoDB. The accessor connects on first use and again
// after any failure, so a database that is down at boot does not keep the
// server from starting.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	timeouts.Configure(timeouts.Config{
		Ping:  appCfg.MongoConnectTimeout,
		Short: appCfg.DBOpTimeout,
	})

	conn := dbconn.New(dbconn.Config{
		URI:            appCfg.MongoURI,
		Database:       appCfg.MongoDatabase,
		MaxPoolSize:    appCfg.MongoMaxPoolSize,
		MinPoolSize:    appCfg.MongoMinPoolSize,
		ConnectTimeout: appCfg.MongoConnectTimeout,
	}, logger)

	// Every new client gets validators and indexes before it is handed out.
	conn.OnConnect(ensureSchema)

	var m *metrics.Metrics
	if appCfg.MetricsEnabled {
		m = metrics.New()
	}

	logger.Info("MongoDB accessor ready",
		zap.String("database", conn.DatabaseName()),
		zap.Bool("configured", conn.Configured()),
		zap.Uint64("max_pool_size", appCfg.MongoMaxPoolSize),
		zap.Uint64("min_pool_size", appCfg.MongoMinPoolSize),
	)

	return DBDeps{
		Conn:    conn,
		Metrics: m,
	}, nil
}

// EnsureSchema warms the connection and waits for the ensureSchema hook the
// first connect starts. Failure is logged, not returned.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if !deps.Conn.Configured() {
		logger.Info("skipping schema setup: no MongoDB URI configured")
		return nil
	}

	if err := deps.Conn.Ping(ctx); err != nil {
		deps.Metrics.DatabaseAvailable(false)
		logger.Warn("MongoDB not reachable at startup; will retry on first request", zap.Error(err))
		return nil
	}

	deps.Metrics.DatabaseAvailable(true)

	// Requests never wait for the connect hook; startup does.
	wctx, cancel := context.WithTimeout(ctx, timeouts.Schema())
	defer cancel()
	if err := deps.Conn.WaitHooks(wctx); err != nil {
		logger.Warn("schema setup still running after startup wait", zap.Error(err))
		return nil
	}
	logger.Info("database schema ensured successfully")
	return nil
}

// ensureSchema creates collections with JSON-Schema validators, then indexes.
// Validators run first so indexes are created on existing collections.
// It gets its own deadline instead of what is left of the connect timeout.
func ensureSchema(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := timeouts.WithTimeout(context.WithoutCancel(ctx), timeouts.Schema(), zap.L(), "ensure schema")
	defer cancel()

	var errs []error
	if err := validators.EnsureAll(ctx, db); err != nil {
		errs = append(errs, err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
