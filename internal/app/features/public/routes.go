// internal/app/features/public/routes.go
package public

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/contact-us", h.HandleContact)
	r.Post("/validate-npi", h.ServeValidateNPI)
	r.Post("/check-email", h.ServeCheckEmail)
	r.Post("/request-interest", h.HandleRequestInterest)
	return r
}
