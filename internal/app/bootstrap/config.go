// internal/app/bootstrap/config.go
package bootstrap

import (
	"os"
	"strings"
	"time"

	"github.com/dalemusser/stratalaunch/internal/app/system/dbconn"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
const EnvVarPrefix = "STRATALAUNCH"

// LegacyMongoURIEnv is read when mongo_uri is not set. Existing deployments
// export the connection string under this name.
const LegacyMongoURIEnv = "MONGODB_URI"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, site_name, etc.
//   - Environment variables: STRATALAUNCH_MONGO_URI, STRATALAUNCH_SITE_NAME, etc.
//   - Command-line flags: --mongo_uri, --site_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "", Desc: "MongoDB connection URI (falls back to MONGODB_URI)"},
	{Name: "mongo_database", Default: dbconn.DefaultDatabase, Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 0, Desc: "MongoDB min connection pool size (default: 0)"},
	{Name: "mongo_connect_timeout", Default: "5s", Desc: "Timeout for connecting to and pinging MongoDB"},

	{Name: "db_op_timeout", Default: "5s", Desc: "Timeout for one request's database work"},
	{Name: "request_timeout", Default: "30s", Desc: "Overall HTTP request timeout"},

	{Name: "site_name", Default: "TheTruthSchool", Desc: "Site name used in API messages"},
	{Name: "cors_allowed_origins", Default: "", Desc: "Comma-separated origins allowed to call /api (blank or * allows any)"},
	{Name: "metrics_enabled", Default: true, Desc: "Expose Prometheus metrics at /metrics"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, STRATALAUNCH_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:            resolveMongoURI(appValues.String("mongo_uri")),
		MongoDatabase:       strings.TrimSpace(appValues.String("mongo_database")),
		MongoMaxPoolSize:    nonNegative(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize:    nonNegative(appValues.Int("mongo_min_pool_size")),
		MongoConnectTimeout: appValues.Duration("mongo_connect_timeout", dbconn.DefaultConnectTimeout),

		DBOpTimeout:    appValues.Duration("db_op_timeout", 5*time.Second),
		RequestTimeout: appValues.Duration("request_timeout", 30*time.Second),

		SiteName:           strings.TrimSpace(appValues.String("site_name")),
		CORSAllowedOrigins: splitList(appValues.String("cors_allowed_origins")),
		MetricsEnabled:     appValues.Bool("metrics_enabled"),
	}

	if appCfg.MongoDatabase == "" {
		appCfg.MongoDatabase = dbconn.DefaultDatabase
	}
	if appCfg.SiteName == "" {
		appCfg.SiteName = "TheTruthSchool"
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// A missing or malformed MongoDB URI is logged but never aborts startup:
// the server still answers /api/health and reports the datastore as
// unavailable on every other endpoint.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	switch {
	case appCfg.MongoURI == "":
		logger.Warn("no MongoDB URI configured; database endpoints will return errors",
			zap.String("env", EnvVarPrefix+"_MONGO_URI"),
			zap.String("legacy_env", LegacyMongoURIEnv))
	default:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Warn("MongoDB URI looks invalid; connections will be retried per request", zap.Error(err))
		}
	}

	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize && appCfg.MongoMaxPoolSize > 0 {
		logger.Warn("mongo_min_pool_size exceeds mongo_max_pool_size",
			zap.Uint64("min", appCfg.MongoMinPoolSize),
			zap.Uint64("max", appCfg.MongoMaxPoolSize))
	}

	return nil
}

// resolveMongoURI returns the configured URI, or the legacy variable when
// the configured one is blank.
func resolveMongoURI(configured string) string {
	if uri := strings.TrimSpace(configured); uri != "" {
		return uri
	}
	return strings.TrimSpace(os.Getenv(LegacyMongoURIEnv))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func nonNegative(n int) uint64 {
	if n < 0 {
		return 0
	}
	return uint64(n)
}
