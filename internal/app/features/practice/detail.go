// internal/app/features/practice/detail.go
package practice

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/practicefinder/internal/app/system/authz"
	"github.com/dalemusser/practicefinder/internal/app/system/respond"
	"github.com/dalemusser/practicefinder/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const msgPracticeNotFound = "Practice not found."

// ServeDetail handles GET /practice/{id}/detail.
//
// Everyone signed in gets the public fields. admin_content, origin and
// source_link are added only for admins; a non-admin is never refused.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogNotFound(w, r, "detail: malformed id", msgPracticeNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Listings.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.ErrLog.LogNotFound(w, r, "detail: no such practice", msgPracticeNotFound)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load practice failed", err, "", "")
		return
	}

	view := p.PublicView()
	if authz.IsAdmin(r) {
		view = *p
	}
	respond.OK(w, "Practice Detail Fetched successfully.", map[string]any{"practice": view})
}
