// internal/domain/models/feedback.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeedbackResponse is one survey submission. Responses are append-only and
// are not deduplicated by email.
type FeedbackResponse struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email              string             `bson:"email" json:"email"`
	Frustration        string             `bson:"frustration" json:"frustration"`
	AICoachHelp        string             `bson:"ai_coach_help" json:"ai_coach_help"`
	ConfidenceArea     string             `bson:"confidence_area" json:"confidence_area"`
	AdditionalFeatures string             `bson:"additional_features" json:"additional_features"`
	Source             string             `bson:"source" json:"source"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
}
