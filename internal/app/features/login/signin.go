// internal/app/features/login/signin.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/practicefinder/internal/app/system/authutil"
	"github.com/dalemusser/practicefinder/internal/app/system/respond"
	"github.com/dalemusser/practicefinder/internal/app/system/timeouts"
	"github.com/dalemusser/practicefinder/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	msgUserNotFound       = "User not found!"
	msgInvalidCredentials = "Invalid credentials!"
	msgNotActivated       = "User is not activated yet!"
	msgBadBody            = "Invalid request body."
)

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SigninPayload is returned by a successful sign-in.
type SigninPayload struct {
	Token string         `json:"token"`
	User  models.Account `json:"user"`
}

// ServeSignin handles POST /auth/signin.
//
// Unknown email is a 404, a wrong or absent password a 400, and an
// account that is not activated is refused even with the right password.
func (h *Handler) ServeSignin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := respond.Decode(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "signin: bad body", err, msgBadBody)
		return
	}
	email := strings.TrimSpace(req.Email)

	if h.Limiter != nil {
		if ok, msg := h.Limiter.Check(r, email); !ok {
			h.Audit.SigninFailedRateLimit(r.Context(), r, email)
			h.Metrics.Signin("password", "rate_limited")
			respond.Fail(w, http.StatusTooManyRequests, msg)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.Audit.SigninFailedUserNotFound(ctx, r, "password", email)
		h.Metrics.Signin("password", "not_found")
		h.ErrLog.LogNotFound(w, r, "signin: unknown email", msgUserNotFound)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user failed", err, "", "")
		return
	}

	if !authutil.CheckPassword(u.Password, req.Password) {
		h.Audit.SigninFailedWrongPassword(ctx, r, u.ID, u.Email)
		h.Metrics.Signin("password", "bad_credentials")
		respond.Fail(w, http.StatusBadRequest, msgInvalidCredentials)
		return
	}
	if !u.Activated {
		h.Audit.SigninFailedNotActivated(ctx, r, u.ID, "password", u.Email)
		h.Metrics.Signin("password", "not_activated")
		respond.Fail(w, http.StatusBadRequest, msgNotActivated)
		return
	}

	token, err := h.Tokens.Issue(u.ID.Hex(), u.Role)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "issue token failed", err, "", "")
		return
	}
	if h.Limiter != nil {
		h.Limiter.Succeeded(email)
	}
	h.Audit.SigninSuccess(ctx, r, u.ID, "password", u.Email)
	h.Metrics.Signin("password", "success")
	h.Log.Info("user signed in", zap.String("user_id", u.ID.Hex()))

	respond.OK(w, "Login successful!", SigninPayload{Token: token, User: u.Account()})
}
