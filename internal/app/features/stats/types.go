// internal/app/features/stats/types.go
package statsfeature

import (
	"time"

	"github.com/dalemusser/stratalaunch/internal/domain/models"
)

// latestLimit is how many recent records each collection contributes.
const latestLimit = 3

// Response is the body of GET /api/stats.
type Response struct {
	Success           bool          `json:"success"`
	DatabaseConnected bool          `json:"database_connected"`
	Collections       Collections   `json:"collections"`
	TotalUsers        int64         `json:"total_users"`
	LatestEntries     LatestEntries `json:"latest_entries"`
}

// Collections holds per-collection document counts.
type Collections struct {
	WaitlistEntries       int64 `json:"waitlist_entries"`
	FeedbackResponses     int64 `json:"feedback_responses"`
	NewsletterSubscribers int64 `json:"newsletter_subscribers"`
}

// LatestEntries holds the most recent records of each collection.
// Slices are never nil so they encode as [].
type LatestEntries struct {
	Waitlist   []WaitlistEntryView        `json:"waitlist"`
	Feedback   []FeedbackResponseView     `json:"feedback"`
	Newsletter []NewsletterSubscriberView `json:"newsletter"`
}

// WaitlistEntryView is a waitlist entry with text id and timestamp.
type WaitlistEntryView struct {
	ID        string `json:"_id"`
	Email     string `json:"email"`
	Source    string `json:"source"`
	CreatedAt string `json:"created_at"`
}

// FeedbackResponseView is a feedback response with text id and timestamp.
type FeedbackResponseView struct {
	ID                 string `json:"_id"`
	Email              string `json:"email"`
	Frustration        string `json:"frustration"`
	AICoachHelp        string `json:"ai_coach_help"`
	ConfidenceArea     string `json:"confidence_area"`
	AdditionalFeatures string `json:"additional_features"`
	Source             string `json:"source"`
	CreatedAt          string `json:"created_at"`
}

// NewsletterSubscriberView is a subscriber with text id and timestamp.
type NewsletterSubscriberView struct {
	ID             string `json:"_id"`
	Email          string `json:"email"`
	WeeklyUpdates  bool   `json:"weekly_updates"`
	ProductUpdates bool   `json:"product_updates"`
	CareerTips     bool   `json:"career_tips"`
	SubscribedAt   string `json:"subscribed_at"`
	Status         string `json:"status"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func waitlistViews(in []models.WaitlistEntry) []WaitlistEntryView {
	out := make([]WaitlistEntryView, 0, len(in))
	for _, e := range in {
		out = append(out, WaitlistEntryView{
			ID:        e.ID.Hex(),
			Email:     e.Email,
			Source:    e.Source,
			CreatedAt: formatTime(e.CreatedAt),
		})
	}
	return out
}

func feedbackViews(in []models.FeedbackResponse) []FeedbackResponseView {
	out := make([]FeedbackResponseView, 0, len(in))
	for _, f := range in {
		out = append(out, FeedbackResponseView{
			ID:                 f.ID.Hex(),
			Email:              f.Email,
			Frustration:        f.Frustration,
			AICoachHelp:        f.AICoachHelp,
			ConfidenceArea:     f.ConfidenceArea,
			AdditionalFeatures: f.AdditionalFeatures,
			Source:             f.Source,
			CreatedAt:          formatTime(f.CreatedAt),
		})
	}
	return out
}

func newsletterViews(in []models.NewsletterSubscriber) []NewsletterSubscriberView {
	out := make([]NewsletterSubscriberView, 0, len(in))
	for _, s := range in {
		out = append(out, NewsletterSubscriberView{
			ID:             s.ID.Hex(),
			Email:          s.Email,
			WeeklyUpdates:  s.WeeklyUpdates,
			ProductUpdates: s.ProductUpdates,
			CareerTips:     s.CareerTips,
			SubscribedAt:   formatTime(s.SubscribedAt),
			Status:         s.Status,
		})
	}
	return out
}
