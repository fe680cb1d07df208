// internal/app/features/stats/handler.go
package statsfeature

import (
	"context"
	"net/http"

	feedbackstore "github.com/dalemusser/stratalaunch/internal/app/store/feedback"
	newsletterstore "github.com/dalemusser/stratalaunch/internal/app/store/newsletter"
	waitliststore "github.com/dalemusser/stratalaunch/internal/app/store/waitlist"
	"github.com/dalemusser/stratalaunch/internal/app/system/apperr"
	"github.com/dalemusser/stratalaunch/internal/app/system/dbconn"
	"github.com/dalemusser/stratalaunch/internal/app/system/jsonutil"
	"github.com/dalemusser/stratalaunch/internal/app/system/metrics"
	"github.com/dalemusser/stratalaunch/internal/app/system/reqlog"
	"github.com/dalemusser/stratalaunch/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler handles statistics HTTP requests.
type Handler struct {
	conn    *dbconn.Accessor
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewHandler creates a new stats handler.
func NewHandler(conn *dbconn.Accessor, m *metrics.Metrics, logger *zap.Logger) *Handler {
	return &Handler{
		conn:    conn,
		metrics: m,
		logger:  logger,
	}
}

// ServeStats handles GET /api/stats: counts for every collection and the
// three latest records of each.
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "stats")
	defer cancel()

	db, err := h.conn.Database(ctx)
	if err != nil {
		h.metrics.DatabaseAvailable(false)
		h.logger.Error("stats: datastore unavailable", reqlog.Field(r), zap.Error(err))
		jsonutil.Fail(w, err)
		return
	}
	h.metrics.DatabaseAvailable(true)

	resp, err := collect(ctx, db)
	if err != nil {
		h.logger.Error("stats: query failed", reqlog.Field(r), zap.Error(err))
		jsonutil.Fail(w, apperr.Internal("Failed to load stats", err))
		return
	}

	h.logger.Debug("stats served",
		zap.Int64("waitlist", resp.Collections.WaitlistEntries),
		zap.Int64("feedback", resp.Collections.FeedbackResponses),
		zap.Int64("newsletter", resp.Collections.NewsletterSubscribers))
	jsonutil.OK(w, resp)
}

func collect(ctx context.Context, db *mongo.Database) (Response, error) {
	wl := waitliststore.New(db)
	fb := feedbackstore.New(db)
	nl := newsletterstore.New(db)

	var resp Response
	var err error

	if resp.Collections.WaitlistEntries, err = wl.Count(ctx); err != nil {
		return Response{}, err
	}
	if resp.Collections.FeedbackResponses, err = fb.Count(ctx); err != nil {
		return Response{}, err
	}
	if resp.Collections.NewsletterSubscribers, err = nl.Count(ctx); err != nil {
		return Response{}, err
	}

	waitlist, err := wl.Latest(ctx, latestLimit)
	if err != nil {
		return Response{}, err
	}
	feedback, err := fb.Latest(ctx, latestLimit)
	if err != nil {
		return Response{}, err
	}
	newsletter, err := nl.Latest(ctx, latestLimit)
	if err != nil {
		return Response{}, err
	}

	resp.Success = true
	resp.DatabaseConnected = true
	resp.TotalUsers = resp.Collections.WaitlistEntries
	resp.LatestEntries = LatestEntries{
		Waitlist:   waitlistViews(waitlist),
		Feedback:   feedbackViews(feedback),
		Newsletter: newsletterViews(newsletter),
	}
	return resp, nil
}
