// Package testutil runs tests against a live MongoDB and builds HTTP requests
// for handler tests.
package testutil

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/stratalaunch/internal/app/system/dbconn"
	"github.com/dalemusser/stratalaunch/internal/app/system/indexes"
	"github.com/dalemusser/stratalaunch/internal/testutil/testenv"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const (
	// TestDBName prefixes every per-test database.
	TestDBName = "stratalaunch_test"

	// MongoDB caps database names at 63 bytes; the prefix and "_" take 18.
	maxSuffix = 45
)

// TestDBURI is the connection string tests dial.
var TestDBURI = testenv.MongoURI()

var shared struct {
	once   sync.Once
	client *mongo.Client
	err    error
}

func sharedClient() (*mongo.Client, error) {
	shared.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		opts := options.Client().
			ApplyURI(TestDBURI).
			SetMaxPoolSize(50).
			SetServerSelectionTimeout(5 * time.Second)

		shared.client, shared.err = mongo.Connect(ctx, opts)
		if shared.err == nil {
			shared.err = shared.client.Ping(ctx, readpref.Primary())
		}
	})
	return shared.client, shared.err
}

// SetupTestDB returns an empty database named after the test, with the
// production indexes in place. It is dropped on cleanup.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	client, err := sharedClient()
	require.NoError(t, err, "test MongoDB at %s is not reachable", TestDBURI)

	db := client.Database(TestDBName + "_" + dbSuffix(t.Name()))

	ctx, cancel := TestContext()
	defer cancel()
	require.NoError(t, db.Drop(ctx), "drop test database")
	require.NoError(t, indexes.EnsureAll(ctx, db), "ensure indexes")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Drop(ctx); err != nil {
			t.Logf("drop %s: %v", db.Name(), err)
		}
	})

	return db
}

// SetupAccessor returns a connection accessor pointed at the database
// SetupTestDB prepares. The accessor is closed on cleanup.
func SetupAccessor(t *testing.T) (*dbconn.Accessor, *mongo.Database) {
	t.Helper()

	db := SetupTestDB(t)
	conn := dbconn.New(dbconn.Config{
		URI:            TestDBURI,
		Database:       db.Name(),
		ConnectTimeout: 10 * time.Second,
	}, zap.NewNop())

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = conn.Close(ctx)
	})

	return conn, db
}

// TestContext bounds a test's database calls.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// dbSuffix maps a test name to characters MongoDB accepts in a database name.
func dbSuffix(name string) string {
	s := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
	if len(s) > maxSuffix {
		s = s[:maxSuffix]
	}
	return s
}
