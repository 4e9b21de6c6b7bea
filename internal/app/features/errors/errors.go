// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/practicefinder/internal/app/system/respond"
)

// Handler serves the router-level fallbacks.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// NotFound answers unmatched routes with a 404 envelope.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	respond.Fail(w, http.StatusNotFound, "Route not found.")
}

// MethodNotAllowed answers a known path with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respond.Fail(w, http.StatusMethodNotAllowed, "Method not allowed.")
}
