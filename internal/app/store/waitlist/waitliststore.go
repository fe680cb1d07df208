// internal/app/store/waitlist/waitliststore.go
package waitliststore

import (
	"context"
	"time"

	"github.com/dalemusser/stratalaunch/internal/app/store/storeutil"
	"github.com/dalemusser/stratalaunch/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the waitlist collection.
const CollectionName = "waitlist_entries"

// Store provides access to the waitlist_entries collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new waitlist store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// Join records email on the waitlist unless it is already there.
// email must already be normalized. created is false when an entry existed;
// the existing entry is left untouched.
func (s *Store) Join(ctx context.Context, email, source string) (created bool, err error) {
	filter := bson.M{"email": email}
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":        primitive.NewObjectID(),
			"source":     source,
			"created_at": time.Now().UTC(),
		},
	}

	res, err := s.c.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		// Two concurrent upserts for a new email: the loser hits the unique index.
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return res.UpsertedCount == 1, nil
}

// GetByEmail returns the entry for a normalized email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.WaitlistEntry, error) {
	var e models.WaitlistEntry
	if err := s.c.FindOne(ctx, bson.M{"email": email}).Decode(&e); err != nil {
		return models.WaitlistEntry{}, err
	}
	return e, nil
}

// Count returns the number of entries.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// Latest returns up to n entries, newest first. Entries created in the same
// instant come back in insertion order.
func (s *Store) Latest(ctx context.Context, n int64) ([]models.WaitlistEntry, error) {
	cur, err := s.c.Find(ctx, bson.M{}, storeutil.Latest("created_at", n))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.WaitlistEntry{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
