package feedbackfeature

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for the feedback feature.
//
// When mounted at /api/feedback:
//   - POST /api/feedback - submit a survey response
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Submit)
	return r
}
