// internal/app/features/public/checks.go
package public

import (
	"context"
	"net/http"

	"github.com/dalemusser/practicefinder/internal/app/system/normalize"
	"github.com/dalemusser/practicefinder/internal/app/system/respond"
	"github.com/dalemusser/practicefinder/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeValidateNPI handles POST /public/validate-npi. An NPI already on an
// account is rejected before the registry is asked.
func (h *Handler) ServeValidateNPI(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NPI string `json:"npi"`
	}
	if err := respond.Decode(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "validate-npi: bad body", err, "Invalid request body.")
		return
	}
	number := normalize.NPI(req.NPI)
	if number == "" {
		respond.OK(w, "", map[string]any{"valid": false})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	taken, err := h.Users.NPIExists(ctx, number)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "npi lookup failed", err, "", "")
		return
	}
	if taken {
		respond.Fail(w, http.StatusBadRequest, "NPI# is already taken.")
		return
	}

	valid, err := h.NPI.Valid(ctx, number)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "npi registry failed", err, "", "")
		return
	}
	respond.OK(w, "", map[string]any{"valid": valid})
}

// ServeCheckEmail handles POST /public/check-email.
func (h *Handler) ServeCheckEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := respond.Decode(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "check-email: bad body", err, "Invalid request body.")
		return
	}
	email := normalize.Email(req.Email)
	if email == "" {
		h.ErrLog.LogBadRequest(w, r, "check-email: empty", nil, "Email is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	taken, err := h.Users.EmailExistsForOther(ctx, email, primitive.NilObjectID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "email lookup failed", err, "", "")
		return
	}
	h.Log.Debug("email availability checked", zap.Bool("taken", taken))
	respond.OK(w, "", map[string]any{"taken": taken})
}
