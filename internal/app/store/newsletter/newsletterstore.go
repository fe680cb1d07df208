// internal/app/store/newsletter/newsletterstore.go
package newsletterstore

import (
	"context"
	"time"

	"github.com/dalemusser/stratalaunch/internal/app/system/status"
	"github.com/dalemusser/stratalaunch/internal/app/store/storeutil"
	"github.com/dalemusser/stratalaunch/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the newsletter collection.
const CollectionName = "newsletter_subscribers"

// Store provides access to the newsletter_subscribers collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new newsletter store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// Subscribe adds email with the given preferences unless it is already
// subscribed. email must already be normalized. An existing subscriber keeps
// the preferences they signed up with.
func (s *Store) Subscribe(ctx context.Context, email string, prefs models.NewsletterPreferences) (created bool, err error) {
	filter := bson.M{"email": email}
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":             primitive.NewObjectID(),
			"weekly_updates":  prefs.WeeklyUpdates,
			"product_updates": prefs.ProductUpdates,
			"career_tips":     prefs.CareerTips,
			"subscribed_at":   time.Now().UTC(),
			"status":          status.Default(),
		},
	}

	res, err := s.c.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return res.UpsertedCount == 1, nil
}

// GetByEmail returns the subscriber for a normalized email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.NewsletterSubscriber, error) {
	var sub models.NewsletterSubscriber
	if err := s.c.FindOne(ctx, bson.M{"email": email}).Decode(&sub); err != nil {
		return models.NewsletterSubscriber{}, err
	}
	return sub, nil
}

// Count returns the number of subscribers.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// Latest returns up to n subscribers, newest first.
func (s *Store) Latest(ctx context.Context, n int64) ([]models.NewsletterSubscriber, error) {
	cur, err := s.c.Find(ctx, bson.M{}, storeutil.Latest("subscribed_at", n))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.NewsletterSubscriber{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
