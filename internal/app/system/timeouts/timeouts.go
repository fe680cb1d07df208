// Package timeouts holds the process-wide deadlines for MongoDB work.
//
// Bootstrap configures them once from AppConfig; handlers read them per
// request.
package timeouts

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing   = 5 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultSchema = 30 * time.Second
)

// Config is a full set of deadlines. Zero fields mean "keep the current value"
// when passed to Configure.
type Config struct {
	Ping   time.Duration // dial + ping, readiness checks
	Short  time.Duration // one request's reads and writes
	Schema time.Duration // validators and indexes on a new connection
}

var defaults = Config{Ping: DefaultPing, Short: DefaultShort, Schema: DefaultSchema}

var (
	mu  sync.RWMutex
	cur = defaults
)

func Ping() time.Duration   { return Current().Ping }
func Short() time.Duration  { return Current().Short }
func Schema() time.Duration { return Current().Schema }

// Current returns a copy of the active deadlines.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cur
}

// Configure overrides the non-zero fields of cfg.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		cur.Ping = cfg.Ping
	}
	if cfg.Short > 0 {
		cur.Short = cfg.Short
	}
	if cfg.Schema > 0 {
		cur.Schema = cfg.Schema
	}
}

// Reset restores the defaults. Used by tests.
func Reset() {
	mu.Lock()
	cur = defaults
	mu.Unlock()
}

// WithTimeout derives a context bounded by timeout. The returned cancel logs
// a warning naming operation if the deadline was what ended the work.
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if log != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && parent.Err() == nil {
			log.Warn("mongodb operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout))
		}
		cancel()
	}
}
