// internal/app/features/waitlist/handler.go
package waitlistfeature

import (
	"net/http"

	waitliststore "github.com/dalemusser/stratalaunch/internal/app/store/waitlist"
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

const form = "waitlist"

const (
	msgJoined  = "Successfully joined the waitlist!"
	msgAlready = "Email already registered for early access!"
)

// Handler handles waitlist sign-ups.
type Handler struct {
	conn    *dbconn.Accessor
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewHandler creates a new waitlist handler.
func NewHandler(conn *dbconn.Accessor, m *metrics.Metrics, logger *zap.Logger) *Handler {
	return &Handler{
		conn:    conn,
		metrics: m,
		logger:  logger,
	}
}

type joinInput struct {
	Email string `json:"email" validate:"required,signupemail"`
}

// Join handles POST /api/waitlist.
//
// Request body:
//
//	{"email": "someone@example.com"}
//
// Responses:
//
//	201 {"message": "Successfully joined the waitlist!", "success": true}
//	200 {"message": "Email already registered for early access!", "success": true}
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	obj, err := payload.Decode(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	in := joinInput{Email: obj.Text("email")}
	if err := inputval.Check(in); err != nil {
		h.fail(w, r, err)
		return
	}
	email := normalize.Email(in.Email)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "waitlist.join")
	defer cancel()

	db, err := h.conn.Database(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	created, err := waitliststore.New(db).Join(ctx, email, models.SourceWebsite)
	if err != nil {
		h.fail(w, r, apperr.Internal("Failed to join waitlist", err))
		return
	}

	if !created {
		h.metrics.Submission(form, metrics.OutcomeExisting)
		jsonutil.Acknowledge(w, http.StatusOK, msgAlready)
		return
	}

	h.metrics.Submission(form, metrics.OutcomeCreated)
	h.logger.Info("waitlist entry created", reqlog.Field(r))
	jsonutil.Acknowledge(w, http.StatusCreated, msgJoined)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.metrics.Submission(form, metrics.OutcomeFailed)
		h.logger.Error("waitlist submission failed", reqlog.Field(r), zap.Error(err))
	} else {
		h.metrics.Submission(form, metrics.OutcomeRejected)
		h.logger.Debug("waitlist submission rejected", reqlog.Field(r), zap.String("reason", apperr.Message(err)))
	}
	jsonutil.Fail(w, err)
}
