// internal/app/features/login/routes.go
package login

import (
	"github.com/dalemusser/practicefinder/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /api/v1/auth.
func Routes(h *Handler, tm *auth.TokenManager) chi.Router {
	r := chi.NewRouter()

	r.Post("/signin", h.ServeSignin)
	r.Post("/signup", h.ServeSignup)

	r.Group(func(pr chi.Router) {
		pr.Use(tm.RequireSignedIn)
		pr.Get("/current-user", h.ServeCurrentUser)
		pr.Post("/change-password", h.ServeChangePassword)
	})
	return r
}
