// internal/domain/models/newsletter.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewsletterPreferences are the opt-in flags a subscriber chose.
// Every flag defaults to true.
type NewsletterPreferences struct {
	WeeklyUpdates  bool `bson:"weekly_updates" json:"weekly_updates"`
	ProductUpdates bool `bson:"product_updates" json:"product_updates"`
	CareerTips     bool `bson:"career_tips" json:"career_tips"`
}

// DefaultNewsletterPreferences returns preferences with every flag on.
func DefaultNewsletterPreferences() NewsletterPreferences {
	return NewsletterPreferences{
		WeeklyUpdates:  true,
		ProductUpdates: true,
		CareerTips:     true,
	}
}

// NewsletterSubscriber is a newsletter sign-up. One document per normalized
// email; re-subscribing does not change the stored preferences.
type NewsletterSubscriber struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email string             `bson:"email" json:"email"` // lower-cased, trimmed; unique

	// Preference flags are stored inline, not as a sub-document.
	NewsletterPreferences `bson:",inline"`

	SubscribedAt time.Time `bson:"subscribed_at" json:"subscribed_at"`
	Status       string    `bson:"status" json:"status"` // see system/status
}
