// Package dbconn owns the process-wide MongoDB connection.
//
// Handlers never dial MongoDB themselves. They ask the shared Accessor for a
// *mongo.Database on each request:
//
//	db, err := conn.Database(ctx)
//	if err != nil {
//	    jsonutil.Fail(w, err) // 500, ServiceUnavailable
//	    return
//	}
//
// The accessor dials lazily, keeps one pooled client for the lifetime of the
// process, pings it before handing it out, and drops it when the ping fails so
// the next request dials again. A missing connection string is reported per
// request instead of stopping the server. Connect hooks run in the background;
// no request waits for them.
package dbconn

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dalemusser/stratalaunch/internal/app/system/apperr"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// DefaultDatabase is used when no database name is configured. The name in
// the connection string path is never consulted.
const DefaultDatabase = "thetruthschool"

// DefaultConnectTimeout bounds a dial or ping when Config leaves it unset.
const DefaultConnectTimeout = 5 * time.Second

var (
	// ErrNotConfigured means no connection string was provided.
	ErrNotConfigured = errors.New("mongodb connection string is not configured")
	// ErrUnavailable means the server could not be reached or stopped answering pings.
	ErrUnavailable = errors.New("mongodb is unavailable")
)

// Config describes how to reach MongoDB.
type Config struct {
	URI            string
	Database       string
	MaxPoolSize    uint64
	MinPoolSize    uint64
	ConnectTimeout time.Duration
}

// DialFunc opens a client. The returned client is pinged by the Accessor.
type DialFunc func(ctx context.Context, cfg Config) (*mongo.Client, error)

// ConnectHook runs once for every newly dialed client, in its own goroutine
// after the client is cached. Its context carries no deadline, so the hook
// bounds its own work. A hook error is logged and does not fail the
// connection.
type ConnectHook func(ctx context.Context, db *mongo.Database) error

// Accessor hands out the shared database handle. It is safe for concurrent use.
type Accessor struct {
	cfg    Config
	logger *zap.Logger
	dial   DialFunc
	hook   ConnectHook

	mu       sync.Mutex
	client   *mongo.Client
	db       *mongo.Database
	hookDone chan struct{} // closed when the latest hook returns
}

// New creates an Accessor. It does not dial.
func New(cfg Config, logger *zap.Logger) *Accessor {
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Accessor{
		cfg:    cfg,
		logger: logger,
		dial:   dialPool,
	}
}

// SetDialer replaces the function used to open clients.
func (a *Accessor) SetDialer(fn DialFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.dial = fn
}

// OnConnect registers a hook that runs for every newly dialed client.
func (a *Accessor) OnConnect(fn ConnectHook) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hook = fn
}

// Configured reports whether a connection string is present.
func (a *Accessor) Configured() bool {
	return a.cfg.URI != ""
}

// DatabaseName returns the database every handle points at.
func (a *Accessor) DatabaseName() string {
	return a.cfg.Database
}

// Client returns the cached client, or nil when none is open.
func (a *Accessor) Client() *mongo.Client {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.client
}

// Database returns a live database handle.
//
// Errors are *apperr.Error of kind ServiceUnavailable wrapping either
// ErrNotConfigured or ErrUnavailable.
func (a *Accessor) Database(ctx context.Context) (*mongo.Database, error) {
	if !a.Configured() {
		return nil, apperr.Unavailable("Database connection is not configured", ErrNotConfigured)
	}

	client, db, fresh, err := a.current(ctx)
	if err != nil {
		return nil, apperr.Unavailable("Database connection failed", errors.Join(ErrUnavailable, err))
	}
	if fresh {
		return db, nil
	}

	if err := a.ping(ctx, client); err != nil {
		a.logger.Warn("mongodb ping failed; dropping cached client",
			zap.String("database", a.cfg.Database),
			zap.Error(err))
		a.reset(client)
		return nil, apperr.Unavailable("Database connection failed", errors.Join(ErrUnavailable, err))
	}

	return db, nil
}

// Ping checks the connection without returning the handle.
func (a *Accessor) Ping(ctx context.Context) error {
	_, err := a.Database(ctx)
	return err
}

// WaitHooks blocks until the connect hook of the latest client has returned,
// or ctx is done.
func (a *Accessor) WaitHooks(ctx context.Context) error {
	a.mu.Lock()
	done := a.hookDone
	a.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close waits for a running connect hook, then disconnects the cached client.
func (a *Accessor) Close(ctx context.Context) error {
	if err := a.WaitHooks(ctx); err != nil {
		a.logger.Warn("closing with a connect hook still running", zap.Error(err))
	}

	a.mu.Lock()
	client := a.client
	a.client, a.db = nil, nil
	a.mu.Unlock()

	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

// current returns the cached client or dials a new one. Dialing happens under
// the lock so concurrent first requests share one client. fresh reports a
// client that was dialed and pinged by this call.
func (a *Accessor) current(ctx context.Context) (client *mongo.Client, db *mongo.Database, fresh bool, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, a.db, false, nil
	}

	dctx, cancel := context.WithTimeout(ctx, a.cfg.ConnectTimeout)
	defer cancel()

	start := time.Now()
	client, err = a.dial(dctx, a.cfg)
	if err != nil {
		a.logger.Error("mongodb connect failed",
			zap.String("database", a.cfg.Database),
			zap.Duration("took", time.Since(start)),
			zap.Error(err))
		return nil, nil, false, err
	}

	if err := a.ping(dctx, client); err != nil {
		a.logger.Error("mongodb ping after connect failed",
			zap.String("database", a.cfg.Database),
			zap.Error(err))
		a.disconnect(client)
		return nil, nil, false, err
	}

	db = client.Database(a.cfg.Database)
	a.client, a.db = client, db

	if a.hook != nil {
		done := make(chan struct{})
		a.hookDone = done
		go a.runHook(context.WithoutCancel(ctx), a.hook, db, done)
	}

	a.logger.Info("connected to MongoDB",
		zap.String("database", a.cfg.Database),
		zap.Uint64("max_pool_size", a.cfg.MaxPoolSize),
		zap.Duration("took", time.Since(start)))

	return client, db, true, nil
}

func (a *Accessor) runHook(ctx context.Context, hook ConnectHook, db *mongo.Database, done chan struct{}) {
	defer close(done)

	start := time.Now()
	if err := hook(ctx, db); err != nil {
		a.logger.Warn("mongodb connect hook failed",
			zap.String("database", db.Name()),
			zap.Error(err))
		return
	}
	a.logger.Debug("mongodb connect hook finished",
		zap.String("database", db.Name()),
		zap.Duration("took", time.Since(start)))
}

func (a *Accessor) ping(ctx context.Context, client *mongo.Client) error {
	pctx, cancel := context.WithTimeout(ctx, a.cfg.ConnectTimeout)
	defer cancel()
	return client.Ping(pctx, readpref.Primary())
}

// reset drops client from the cache if it is still the cached one.
func (a *Accessor) reset(client *mongo.Client) {
	a.mu.Lock()
	if a.client == client {
		a.client, a.db = nil, nil
	}
	a.mu.Unlock()

	a.disconnect(client)
}

func (a *Accessor) disconnect(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ConnectTimeout)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		a.logger.Debug("mongodb disconnect after failure", zap.Error(err))
	}
}

// dialPool opens a pooled client through waffle's mongo pantry.
func dialPool(ctx context.Context, cfg Config) (*mongo.Client, error) {
	poolCfg := wafflemongo.DefaultPoolConfig()
	if cfg.MaxPoolSize > 0 {
		poolCfg.MaxPoolSize = cfg.MaxPoolSize
	}
	if cfg.MinPoolSize > 0 {
		poolCfg.MinPoolSize = cfg.MinPoolSize
	}
	return wafflemongo.ConnectWithPool(ctx, cfg.URI, cfg.Database, poolCfg)
}
