// internal/app/features/stats/routes.go
package statsfeature

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for the stats feature.
//
// When mounted at /api/stats:
//   - GET /api/stats - counts and latest records
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeStats)
	return r
}
