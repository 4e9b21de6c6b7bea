// internal/app/features/login/account.go
package login

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/practicefinder/internal/app/system/authutil"
	"github.com/dalemusser/practicefinder/internal/app/system/authz"
	"github.com/dalemusser/practicefinder/internal/app/system/mailer"
	"github.com/dalemusser/practicefinder/internal/app/system/respond"
	"github.com/dalemusser/practicefinder/internal/app/system/timeouts"
	"github.com/dalemusser/practicefinder/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	msgNoSuchUser     = "User not found."
	msgWrongOldPass   = "Incorrect old password."
	msgPasswordChange = "Password changed successfully."
)

// loadCaller resolves the signed-in user, writing the 404 or 500 itself.
func (h *Handler) loadCaller(ctx context.Context, w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.LogNotFound(w, r, "no usable caller id", msgNoSuchUser)
		return nil, false
	}
	u, err := h.Users.GetByID(ctx, uid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.ErrLog.LogNotFound(w, r, "caller no longer exists", msgNoSuchUser)
		return nil, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user failed", err, "", "")
		return nil, false
	}
	return u, true
}

// ServeCurrentUser handles GET /auth/current-user.
func (h *Handler) ServeCurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, ok := h.loadCaller(ctx, w, r)
	if !ok {
		return
	}
	respond.OK(w, "Authenticated User fetched successful", map[string]any{"user": u.Account()})
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// ServeChangePassword handles POST /auth/change-password.
//
// An account created through Google has no password and may set one
// without oldPassword. Once a password exists the old one must match.
func (h *Handler) ServeChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := respond.Decode(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "change password: bad body", err, msgBadBody)
		return
	}
	if err := authutil.ValidatePassword(req.NewPassword); err != nil {
		h.ErrLog.LogBadRequest(w, r, "change password: short password", err, msgShortPass)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, ok := h.loadCaller(ctx, w, r)
	if !ok {
		return
	}

	if req.OldPassword != "" || u.Password != "" {
		if !authutil.CheckPassword(u.Password, req.OldPassword) {
			respond.Fail(w, http.StatusUnauthorized, msgWrongOldPass)
			return
		}
	}

	hash, err := authutil.HashPassword(req.NewPassword)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password failed", err, "", "")
		return
	}
	if err := h.Users.SetPassword(ctx, u.ID, hash); err != nil {
		h.ErrLog.LogServerError(w, r, "set password failed", err, "", "")
		return
	}

	if h.Notifier != nil {
		h.Notifier.Dispatch(mailer.BuildPasswordChanged(*u))
		h.Metrics.EmailDispatched("password_changed")
	}
	h.Audit.PasswordChanged(ctx, r, u.ID)

	respond.OK(w, msgPasswordChange, nil)
}
