// internal/app/features/systemusers/routes.go
package systemusers

import (
	"github.com/dalemusser/practicefinder/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /api/v1/user. Profile update is open to the user
// themself; everything else is admin only.
func Routes(h *Handler, tm *auth.TokenManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(tm.RequireSignedIn)
		pr.Patch("/{id}/update", h.HandleUpdate)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(tm.RequireAdmin)
		pr.Get("/list", h.ServeList)
		pr.Get("/{id}/activate", h.HandleActivate)
		pr.Delete("/{id}", h.HandleDelete)
	})
	return r
}
