package dbconn

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/stratalaunch/internal/app/system/apperr"
	"github.com/dalemusser/stratalaunch/internal/testutil/testenv"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// deadURI points at a port nothing listens on.
const deadURI = "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=300&connectTimeoutMS=300"

var testURI = testenv.MongoURI()

func countingDialer(n *int32) DialFunc {
	return func(ctx context.Context, cfg Config) (*mongo.Client, error) {
		atomic.AddInt32(n, 1)
		return mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	}
}

// pingCountingDialer counts ping commands sent by the client it opens.
func pingCountingDialer(pings *int32) DialFunc {
	return func(ctx context.Context, cfg Config) (*mongo.Client, error) {
		monitor := &event.CommandMonitor{
			Started: func(_ context.Context, e *event.CommandStartedEvent) {
				if e.CommandName == "ping" {
					atomic.AddInt32(pings, 1)
				}
			},
		}
		return mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI).SetMonitor(monitor))
	}
}

func closeOnCleanup(t *testing.T, a *Accessor) {
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = a.Close(ctx)
	})
}

func TestNew_Defaults(t *testing.T) {
	a := New(Config{URI: "mongodb://example.invalid/otherdb"}, nil)

	if a.DatabaseName() != DefaultDatabase {
		t.Errorf("DatabaseName() = %q, want %q", a.DatabaseName(), DefaultDatabase)
	}
	if a.cfg.ConnectTimeout != DefaultConnectTimeout {
		t.Errorf("ConnectTimeout = %v, want %v", a.cfg.ConnectTimeout, DefaultConnectTimeout)
	}
	if !a.Configured() {
		t.Error("Configured() = false, want true")
	}
}

func TestDatabase_NotConfigured(t *testing.T) {
	var dials int32
	a := New(Config{}, zap.NewNop())
	a.SetDialer(countingDialer(&dials))

	db, err := a.Database(context.Background())
	if db != nil {
		t.Error("Database() returned a handle without a connection string")
	}
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("error = %v, want ErrNotConfigured", err)
	}
	if apperr.KindOf(err) != apperr.KindServiceUnavailable {
		t.Errorf("kind = %s, want %s", apperr.KindOf(err), apperr.KindServiceUnavailable)
	}
	if dials != 0 {
		t.Errorf("dialed %d times, want 0", dials)
	}
}

func TestDatabase_UnreachableResetsAndRetries(t *testing.T) {
	var dials int32
	a := New(Config{URI: deadURI, ConnectTimeout: 500 * time.Millisecond}, zap.NewNop())
	a.SetDialer(countingDialer(&dials))

	for i := 1; i <= 2; i++ {
		start := time.Now()
		_, err := a.Database(context.Background())
		if !errors.Is(err, ErrUnavailable) {
			t.Fatalf("attempt %d: error = %v, want ErrUnavailable", i, err)
		}
		if apperr.KindOf(err) != apperr.KindServiceUnavailable {
			t.Errorf("attempt %d: kind = %s, want %s", i, apperr.KindOf(err), apperr.KindServiceUnavailable)
		}
		if took := time.Since(start); took > 5*time.Second {
			t.Errorf("attempt %d took %v, want a fast failure", i, took)
		}
		if a.Client() != nil {
			t.Errorf("attempt %d: client still cached after failure", i)
		}
		if got := atomic.LoadInt32(&dials); got != int32(i) {
			t.Errorf("attempt %d: dials = %d, want %d", i, got, i)
		}
	}
}

func TestDatabase_DialError(t *testing.T) {
	a := New(Config{URI: testURI}, zap.NewNop())
	a.SetDialer(func(ctx context.Context, cfg Config) (*mongo.Client, error) {
		return nil, errors.New("no route to host")
	})

	_, err := a.Database(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
	if apperr.Message(err) != "Database connection failed" {
		t.Errorf("message = %q", apperr.Message(err))
	}
}

func TestDatabase_ReusesClient(t *testing.T) {
	var dials, hooks int32
	a := New(Config{URI: testURI, Database: "stratalaunch_test_dbconn"}, zap.NewNop())
	a.SetDialer(countingDialer(&dials))
	a.OnConnect(func(ctx context.Context, db *mongo.Database) error {
		atomic.AddInt32(&hooks, 1)
		return nil
	})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = a.Close(ctx)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			db, err := a.Database(ctx)
			if err != nil {
				t.Errorf("Database() error = %v", err)
				return
			}
			if db.Name() != "stratalaunch_test_dbconn" {
				t.Errorf("db.Name() = %q", db.Name())
			}
		}()
	}
	wg.Wait()

	first := a.Client()
	if _, err := a.Database(ctx); err != nil {
		t.Fatalf("Database() error = %v", err)
	}
	if a.Client() != first {
		t.Error("client was replaced while healthy")
	}
	if dials != 1 {
		t.Errorf("dials = %d, want 1", dials)
	}
	if err := a.WaitHooks(ctx); err != nil {
		t.Fatalf("WaitHooks() error = %v", err)
	}
	if atomic.LoadInt32(&hooks) != 1 {
		t.Errorf("connect hook ran %d times, want 1", hooks)
	}
}

func TestDatabase_ExplicitNameWinsOverURIPath(t *testing.T) {
	a := New(Config{URI: testURI + "/fromuri", Database: "stratalaunch_test_explicit"}, zap.NewNop())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = a.Close(ctx)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := a.Database(ctx)
	if err != nil {
		t.Fatalf("Database() error = %v", err)
	}
	if db.Name() != "stratalaunch_test_explicit" {
		t.Errorf("db.Name() = %q, want stratalaunch_test_explicit", db.Name())
	}
}

func TestDatabase_SlowHookDoesNotBlockRequests(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	a := New(Config{URI: testURI, Database: "stratalaunch_test_slowhook"}, zap.NewNop())
	a.OnConnect(func(ctx context.Context, db *mongo.Database) error {
		close(started)
		<-release
		return nil
	})
	closeOnCleanup(t, a)
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := a.Database(ctx); err != nil {
		t.Fatalf("first Database() error = %v", err)
	}
	select {
	case <-started:
	case <-ctx.Done():
		t.Fatal("connect hook never started")
	}

	// The hook is still blocked; a concurrent request must not wait on it.
	done := make(chan error, 1)
	go func() {
		rctx, rcancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer rcancel()
		_, err := a.Database(rctx)
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("concurrent Database() error = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Database() waited on the connect hook")
	}

	wctx, wcancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer wcancel()
	if err := a.WaitHooks(wctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("WaitHooks() = %v while hook is blocked, want DeadlineExceeded", err)
	}
}

func TestDatabase_FreshClientPingedOnce(t *testing.T) {
	var pings int32
	a := New(Config{URI: testURI, Database: "stratalaunch_test_pings"}, zap.NewNop())
	a.SetDialer(pingCountingDialer(&pings))
	closeOnCleanup(t, a)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := a.Database(ctx); err != nil {
		t.Fatalf("Database() error = %v", err)
	}
	if got := atomic.LoadInt32(&pings); got != 1 {
		t.Errorf("pings after first call = %d, want 1", got)
	}

	if _, err := a.Database(ctx); err != nil {
		t.Fatalf("Database() error = %v", err)
	}
	if got := atomic.LoadInt32(&pings); got != 2 {
		t.Errorf("pings after second call = %d, want 2", got)
	}
}

func TestWaitHooks_NoHook(t *testing.T) {
	a := New(Config{URI: testURI}, zap.NewNop())
	if err := a.WaitHooks(context.Background()); err != nil {
		t.Errorf("WaitHooks() with no client = %v", err)
	}
}

func TestClose_Idempotent(t *testing.T) {
	a := New(Config{URI: testURI}, zap.NewNop())
	if err := a.Close(context.Background()); err != nil {
		t.Errorf("Close() on unopened accessor = %v", err)
	}
}
