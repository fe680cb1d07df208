package waitliststore

import (
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/stratalaunch/internal/domain/models"
	"github.com/dalemusser/stratalaunch/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	if store == nil {
		t.Fatal("New() returned nil")
	}
}

func TestStore_Join_CreatesOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Join(ctx, "a@b.co", models.SourceWebsite)
	if err != nil {
		t.Fatalf("Join() error = %v", err)
	}
	if !created {
		t.Error("first Join() should report created")
	}

	first, err := store.GetByEmail(ctx, "a@b.co")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if first.Source != models.SourceWebsite {
		t.Errorf("Source = %q, want %q", first.Source, models.SourceWebsite)
	}
	if first.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
	if first.ID.IsZero() {
		t.Error("ID should be set")
	}

	created, err = store.Join(ctx, "a@b.co", "other")
	if err != nil {
		t.Fatalf("second Join() error = %v", err)
	}
	if created {
		t.Error("second Join() should not report created")
	}

	again, err := store.GetByEmail(ctx, "a@b.co")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if again.ID != first.ID || again.Source != first.Source || !again.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("existing entry changed: %+v -> %+v", first, again)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestStore_Join_Concurrent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.Join(ctx, "race@example.com", models.SourceWebsite)
			if err != nil {
				t.Errorf("Join() error = %v", err)
				return
			}
			if ok {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if created != 1 {
		t.Errorf("created reported %d times, want 1", created)
	}
	count, _ := store.Count(ctx)
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestStore_GetByEmail_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByEmail(ctx, "nobody@example.com")
	if err != mongo.ErrNoDocuments {
		t.Errorf("GetByEmail() error = %v, want ErrNoDocuments", err)
	}
}

func TestStore_Latest(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Empty collection yields an empty, non-nil slice.
	got, err := store.Latest(ctx, 3)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("Latest() on empty = %v, want empty slice", got)
	}

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	docs := []any{
		bson.M{"email": "old@example.com", "source": "website", "created_at": base},
		bson.M{"email": "mid@example.com", "source": "website", "created_at": base.Add(time.Hour)},
		bson.M{"email": "tie1@example.com", "source": "website", "created_at": base.Add(2 * time.Hour)},
		bson.M{"email": "tie2@example.com", "source": "website", "created_at": base.Add(2 * time.Hour)},
	}
	for _, d := range docs {
		if _, err := db.Collection(CollectionName).InsertOne(ctx, d); err != nil {
			t.Fatalf("InsertOne() error = %v", err)
		}
	}

	got, err = store.Latest(ctx, 3)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	want := []string{"tie1@example.com", "tie2@example.com", "mid@example.com"}
	if len(got) != len(want) {
		t.Fatalf("Latest() returned %d entries, want %d", len(got), len(want))
	}
	for i, e := range got {
		if e.Email != want[i] {
			t.Errorf("Latest()[%d].Email = %q, want %q", i, e.Email, want[i])
		}
	}
}
