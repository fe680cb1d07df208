// internal/domain/models/waitlist.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Source tags recorded on submissions.
const (
	SourceWebsite = "website" // waitlist sign-ups from the landing page
	SourceSurvey  = "survey"  // feedback survey responses
)

// WaitlistEntry is an early-access sign-up. One document per normalized email;
// entries are never updated or deleted by the API.
type WaitlistEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email     string             `bson:"email" json:"email"` // lower-cased, trimmed; unique
	Source    string             `bson:"source" json:"source"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
