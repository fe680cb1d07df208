package newsletterfeature

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for the newsletter feature.
//
// When mounted at /api/newsletter:
//   - POST /api/newsletter - subscribe
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Subscribe)
	return r
}
