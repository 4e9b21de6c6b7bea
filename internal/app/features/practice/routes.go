// internal/app/features/practice/routes.go
package practice

import (
	"github.com/dalemusser/practicefinder/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /api/v1/practice. Aggregates and images are public;
// search, detail and likes need a bearer token.
func Routes(h *Handler, tm *auth.TokenManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/states-listings-count", h.ServeStatesListingsCount)
	r.Post("/state-listings-count", h.ServeStateListingsCount)
	r.Post("/local-areas", h.ServeLocalAreas)
	r.Post("/state-description", h.ServeStateDescription)
	r.Get("/total-count", h.ServeTotalCount)
	r.Get("/{state}/listing-images", h.ServeListingImages)

	r.Group(func(pr chi.Router) {
		pr.Use(tm.RequireSignedIn)
		pr.Post("/list", h.ServeList)
		pr.Get("/{id}/detail", h.ServeDetail)
		pr.Get("/{id}/like", h.ServeLike)
		pr.Get("/likes", h.ServeLikes)
		// Any signed-in caller may read another user's likes by id.
		pr.Get("/{id}/liked-listings", h.ServeLikedListings)
	})
	return r
}
