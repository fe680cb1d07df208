// internal/app/store/feedback/feedbackstore.go
package feedbackstore

import (
	"context"
	"time"

	"github.com/dalemusser/stratalaunch/internal/app/store/storeutil"
	"github.com/dalemusser/stratalaunch/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CollectionName is the feedback collection.
const CollectionName = "feedback_responses"

// Store provides access to the feedback_responses collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new feedback store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// Insert stores a response. ID and CreatedAt are assigned here.
func (s *Store) Insert(ctx context.Context, fb models.FeedbackResponse) (models.FeedbackResponse, error) {
	fb.ID = primitive.NewObjectID()
	fb.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, fb); err != nil {
		return models.FeedbackResponse{}, err
	}
	return fb, nil
}

// CountByEmail returns how many responses a normalized email has submitted.
func (s *Store) CountByEmail(ctx context.Context, email string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"email": email})
}

// Count returns the number of responses.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// Latest returns up to n responses, newest first.
func (s *Store) Latest(ctx context.Context, n int64) ([]models.FeedbackResponse, error) {
	cur, err := s.c.Find(ctx, bson.M{}, storeutil.Latest("created_at", n))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.FeedbackResponse{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
