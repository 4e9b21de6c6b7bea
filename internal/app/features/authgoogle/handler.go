// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/practicefinder/internal/app/features/errors"
	authproviderstore "github.com/dalemusser/practicefinder/internal/app/store/authproviders"
	userstore "github.com/dalemusser/practicefinder/internal/app/store/users"
	"github.com/dalemusser/practicefinder/internal/app/system/auditlog"
	"github.com/dalemusser/practicefinder/internal/app/system/auth"
	"github.com/dalemusser/practicefinder/internal/app/system/googleid"
	"github.com/dalemusser/practicefinder/internal/app/system/metrics"
	"github.com/dalemusser/practicefinder/internal/app/system/respond"
	"github.com/dalemusser/practicefinder/internal/app/system/timeouts"
	"github.com/dalemusser/practicefinder/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	msgUserNotFound   = "User not found!"
	msgNotBound       = "Google option is not available."
	msgNotActivated   = "User is not activated yet!"
	msgMissingToken   = "Google access token is required."
	msgGoogleRejected = "Google sign-in failed."
)

// Handler exchanges a Google access token either for the Google profile
// (sign-up prefill) or for a bearer token (sign-in).
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Tokens *auth.TokenManager

	Users         *userstore.Store
	AuthProviders *authproviderstore.Store

	Google  googleid.Resolver
	Audit   *auditlog.Logger
	Metrics *metrics.Metrics
}

// NewHandler creates a new Google sign-in handler.
func NewHandler(db *mongo.Database, tm *auth.TokenManager, google googleid.Resolver, audit *auditlog.Logger, m *metrics.Metrics, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Log:           logger,
		ErrLog:        errLog,
		Tokens:        tm,
		Users:         userstore.New(db),
		AuthProviders: authproviderstore.New(db),
		Google:        google,
		Audit:         audit,
		Metrics:       m,
	}
}

type googleRequest struct {
	Token   string `json:"token"`
	IsLogin bool   `json:"isLogin"`
}

// LoginPayload is returned by a successful Google sign-in.
type LoginPayload struct {
	Token string         `json:"token"`
	User  models.Account `json:"user"`
}

// ServeGoogle handles POST /auth/google.
//
// With isLogin=false it only returns the resolved profile. With
// isLogin=true the email must belong to a user that has this Google
// subject bound to it, and that user must be activated.
func (h *Handler) ServeGoogle(w http.ResponseWriter, r *http.Request) {
	var req googleRequest
	if err := respond.Decode(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "google: bad body", err, "Invalid request body.")
		return
	}
	if strings.TrimSpace(req.Token) == "" {
		h.ErrLog.LogBadRequest(w, r, "google: missing token", nil, msgMissingToken)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := h.Google.Resolve(ctx, req.Token)
	if err != nil {
		h.Metrics.Signin("google", "rejected")
		h.ErrLog.LogServerError(w, r, "google userinfo failed", err, msgGoogleRejected, "")
		return
	}

	if !req.IsLogin {
		respond.OK(w, "", map[string]any{"userInfo": id})
		return
	}

	u, err := h.Users.GetByEmail(ctx, id.Email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.Audit.SigninFailedUserNotFound(ctx, r, "google", id.Email)
		h.Metrics.Signin("google", "not_found")
		h.ErrLog.LogNotFound(w, r, "google: unknown email", msgUserNotFound)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user failed", err, "", "")
		return
	}

	_, err = h.AuthProviders.Find(ctx, id.UID, u.ID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.Metrics.Signin("google", "not_bound")
		h.ErrLog.LogNotFound(w, r, "google: subject not bound to user", msgNotBound)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load auth provider failed", err, "", "")
		return
	}

	if !u.Activated {
		h.Audit.SigninFailedNotActivated(ctx, r, u.ID, "google", u.Email)
		h.Metrics.Signin("google", "not_activated")
		respond.Fail(w, http.StatusBadRequest, msgNotActivated)
		return
	}

	token, err := h.Tokens.Issue(u.ID.Hex(), u.Role)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "issue token failed", err, "", "")
		return
	}
	h.Audit.SigninSuccess(ctx, r, u.ID, "google", u.Email)
	h.Metrics.Signin("google", "success")
	h.Log.Info("user signed in with google", zap.String("user_id", u.ID.Hex()))

	respond.OK(w, "Google Login successful!", LoginPayload{Token: token, User: u.Account()})
}
