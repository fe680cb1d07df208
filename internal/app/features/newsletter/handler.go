// internal/app/features/newsletter/handler.go
package newsletterfeature

import (
	"net/http"

	newsletterstore "github.com/dalemusser/stratalaunch/internal/app/store/newsletter"
	"github.com/dalemusser/stratalaunch/internal/app/system/apperr"
	"github.com/dalemusser/stratalaunch/internal/app/system/dbconn"
	"github.com/dalemusser/stratalaunch/internal/app/system/inputval"
	"github.com/dalemusser/stratalaunch/internal/app/system/jsonutil"
	"github.com/dalemusser/stratalaunch/internal/app/system/metrics"
	"github.com/dalemusser/stratalaunch/internal/app/system/normalize"
	"github.com/dalemusser/stratalaunch/internal/app/system/payload"
	"github.com/dalemusser/stratalaunch/internal/app/system/reqlog"
	"github.com/dalemusser/stratalaunch/internal/app/system/timeouts"
	"github.com/dalemusser/stratalaunch/internal/domain/models"
	"go.uber.org/zap"
)

const form = "newsletter"

const msgAlready = "Email already subscribed to newsletter!"

// Handler handles newsletter subscriptions.
type Handler struct {
	siteName string
	conn     *dbconn.Accessor
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewHandler creates a new newsletter handler. siteName appears in the
// success message.
func NewHandler(siteName string, conn *dbconn.Accessor, m *metrics.Metrics, logger *zap.Logger) *Handler {
	return &Handler{
		siteName: siteName,
		conn:     conn,
		metrics:  m,
		logger:   logger,
	}
}

type subscribeInput struct {
	Email string `json:"email" validate:"required,signupemail"`
}

// Subscribe handles POST /api/newsletter.
//
// Request body:
//
//	{
//	    "email": "someone@example.com",
//	    "preferences": {"weekly_updates": true, "product_updates": false, "career_tips": true}
//	}
//
// preferences and each flag in it are optional and default to true.
// An email that is already subscribed keeps its original preferences.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	obj, err := payload.Decode(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	in := subscribeInput{Email: obj.Text("email")}
	if err := inputval.Check(in); err != nil {
		h.fail(w, r, err)
		return
	}

	prefs, err := preferences(obj)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	email := normalize.Email(in.Email)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "newsletter.subscribe")
	defer cancel()

	db, err := h.conn.Database(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	created, err := newsletterstore.New(db).Subscribe(ctx, email, prefs)
	if err != nil {
		h.fail(w, r, apperr.Internal("Failed to subscribe to newsletter", err))
		return
	}

	if !created {
		h.metrics.Submission(form, metrics.OutcomeExisting)
		jsonutil.Acknowledge(w, http.StatusOK, msgAlready)
		return
	}

	h.metrics.Submission(form, metrics.OutcomeCreated)
	h.logger.Info("newsletter subscriber created", reqlog.Field(r),
		zap.Bool("weekly_updates", prefs.WeeklyUpdates),
		zap.Bool("product_updates", prefs.ProductUpdates),
		zap.Bool("career_tips", prefs.CareerTips))
	jsonutil.Acknowledge(w, http.StatusCreated, "Successfully subscribed to "+h.siteName+" newsletter!")
}

// preferences reads the optional preferences object. Missing or null flags
// default to true.
func preferences(obj payload.Object) (models.NewsletterPreferences, error) {
	prefs := models.DefaultNewsletterPreferences()
	if !obj.Has("preferences") {
		return prefs, nil
	}

	p := obj.Object("preferences")
	if p == nil {
		return prefs, apperr.InvalidPayload("preferences must be an object", nil)
	}

	var err error
	if prefs.WeeklyUpdates, err = p.Bool("weekly_updates", true); err != nil {
		return prefs, err
	}
	if prefs.ProductUpdates, err = p.Bool("product_updates", true); err != nil {
		return prefs, err
	}
	if prefs.CareerTips, err = p.Bool("career_tips", true); err != nil {
		return prefs, err
	}
	return prefs, nil
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if apperr.HTTPStatus(err) >= http.StatusInternalServerError {
		h.metrics.Submission(form, metrics.OutcomeFailed)
		h.logger.Error("newsletter submission failed", reqlog.Field(r), zap.Error(err))
	} else {
		h.metrics.Submission(form, metrics.OutcomeRejected)
		h.logger.Debug("newsletter submission rejected", reqlog.Field(r), zap.String("reason", apperr.Message(err)))
	}
	jsonutil.Fail(w, err)
}
