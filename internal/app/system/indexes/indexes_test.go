package indexes

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/stratalaunch/internal/testutil/testenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// testutil imports this package, so the tests dial on their own.
func testDB(t *testing.T) *mongo.Database {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(testenv.MongoURI()))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	db := client.Database("stratalaunch_test_indexes_" + t.Name())
	if err := db.Drop(ctx); err != nil {
		t.Fatalf("drop: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

func TestKeySig(t *testing.T) {
	got := keySig(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	if got != "created_at:-1, _id:1" {
		t.Errorf("keySig() = %q", got)
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testDB(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := EnsureAll(ctx, db); err != nil {
		t.Fatalf("first EnsureAll() error = %v", err)
	}
	if err := EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll() error = %v", err)
	}
}

func TestEnsureAll_UniqueEmail(t *testing.T) {
	db := testDB(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll() error = %v", err)
	}

	for _, coll := range []string{"waitlist_entries", "newsletter_subscribers"} {
		c := db.Collection(coll)
		if _, err := c.InsertOne(ctx, bson.M{"email": "dup@example.com"}); err != nil {
			t.Fatalf("%s: first insert: %v", coll, err)
		}
		_, err := c.InsertOne(ctx, bson.M{"email": "dup@example.com"})
		if !mongo.IsDuplicateKeyError(err) {
			t.Errorf("%s: second insert error = %v, want duplicate key", coll, err)
		}
	}

	// Feedback is never deduplicated.
	fb := db.Collection("feedback_responses")
	for i := 0; i < 2; i++ {
		if _, err := fb.InsertOne(ctx, bson.M{"email": "dup@example.com"}); err != nil {
			t.Fatalf("feedback insert %d: %v", i, err)
		}
	}
}

func TestEnsureIndexSet_UpgradesToUnique(t *testing.T) {
	db := testDB(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := db.Collection("waitlist_entries")
	if _, err := c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("legacy_email"),
	}); err != nil {
		t.Fatalf("CreateOne() error = %v", err)
	}

	if err := ensureWaitlistEntries(ctx, db); err != nil {
		t.Fatalf("ensureWaitlistEntries() error = %v", err)
	}

	existing := listIndexes(ctx, c)
	idx, ok := existing["email:1"]
	if !ok {
		t.Fatal("email index missing")
	}
	if !isUnique(idx.Unique) {
		t.Error("email index should be unique after ensure")
	}
}
