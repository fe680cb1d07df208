// internal/app/features/feedback/handler.go
package feedbackfeature

import (
	"net/http"

	feedbackstore "github.com/dalemusser/stratalaunch/internal/app/store/feedback"
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

const form = "feedback"

const msgSubmitted = "Feedback submitted successfully!"

// Handler handles survey submissions.
type Handler struct {
	conn    *dbconn.Accessor
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewHandler creates a new feedback handler.
func NewHandler(conn *dbconn.Accessor, m *metrics.Metrics, logger *zap.Logger) *Handler {
	return &Handler{
		conn:    conn,
		metrics: m,
		logger:  logger,
	}
}

// Field order is the order missing fields are reported in.
type submitInput struct {
	Email              string `json:"email" validate:"required,signupemail"`
	Frustration        string `json:"frustration" validate:"required"`
	AICoachHelp        string `json:"ai_coach_help" validate:"required"`
	ConfidenceArea     string `json:"confidence_area" validate:"required"`
	AdditionalFeatures string `json:"additional_features"`
}

// readInput pulls the survey fields out of the body. The survey page posts
// the older field names, so those are accepted when the current name is absent.
func readInput(obj payload.Object) submitInput {
	return submitInput{
		Email:              obj.Text("email"),
		Frustration:        obj.Text("frustration"),
		AICoachHelp:        obj.FirstText("ai_coach_help", "ai_coach_ask"),
		ConfidenceArea:     obj.FirstText("confidence_area", "least_confident_area"),
		AdditionalFeatures: obj.FirstText("additional_features", "other_suggestions"),
	}
}

// Submit handles POST /api/feedback. Responses are never deduplicated.
//
// Request body:
//
//	{
//	    "email": "someone@example.com",
//	    "frustration": "...",
//	    "ai_coach_help": "...",
//	    "confidence_area": "...",
//	    "additional_features": "..."   // optional
//	}
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	obj, err := payload.Decode(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	in := readInput(obj)
	if err := inputval.Check(in); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "feedback.submit")
	defer cancel()

	db, err := h.conn.Database(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	fb, err := feedbackstore.New(db).Insert(ctx, models.FeedbackResponse{
		Email:              normalize.Email(in.Email),
		Frustration:        in.Frustration,
		AICoachHelp:        in.AICoachHelp,
		ConfidenceArea:     in.ConfidenceArea,
		AdditionalFeatures: in.AdditionalFeatures,
		Source:             models.SourceSurvey,
	})
	if err != nil {
		h.fail(w, r, apperr.Internal("Failed to submit feedback", err))
		return
	}

	h.metrics.Submission(form, metrics.OutcomeCreated)
	h.logger.Info("feedback response stored", reqlog.Field(r), zap.String("id", fb.ID.Hex()))
	jsonutil.Acknowledge(w, http.StatusCreated, msgSubmitted)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if apperr.HTTPStatus(err) >= http.StatusInternalServerError {
		h.metrics.Submission(form, metrics.OutcomeFailed)
		h.logger.Error("feedback submission failed", reqlog.Field(r), zap.Error(err))
	} else {
		h.metrics.Submission(form, metrics.OutcomeRejected)
		h.logger.Debug("feedback submission rejected", reqlog.Field(r), zap.String("reason", apperr.Message(err)))
	}
	jsonutil.Fail(w, err)
}
