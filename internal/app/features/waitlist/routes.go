package waitlistfeature

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for the waitlist feature.
//
// When mounted at /api/waitlist:
//   - POST /api/waitlist - join the waitlist
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Join)
	return r
}
