// internal/app/features/login/signup.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/practicefinder/internal/app/store/users"
	"github.com/dalemusser/practicefinder/internal/app/system/authutil"
	"github.com/dalemusser/practicefinder/internal/app/system/mailer"
	"github.com/dalemusser/practicefinder/internal/app/system/respond"
	"github.com/dalemusser/practicefinder/internal/app/system/timeouts"
	"github.com/dalemusser/practicefinder/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	msgEmailTaken   = "Email is already taken."
	msgInvalidNPI   = "Invalid NPI."
	msgInvalidEmail = "Please provide a valid email address."
	msgShortPass    = "Password must be at least 8 characters."
)

type signupRequest struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	NPI           string `json:"npi"`
	UID           string `json:"uid"`
	Phone         string `json:"phone"`
	Specialty     string `json:"specialty"`
	NeedFinancing bool   `json:"needFinancing"`
}

// ServeSignup handles POST /auth/signup.
//
// A request with a uid comes from the Google flow: no password is stored
// and the uid is bound to the new user. Accounts start unactivated.
func (h *Handler) ServeSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := respond.Decode(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "signup: bad body", err, msgBadBody)
		return
	}
	req.UID = strings.TrimSpace(req.UID)

	if err := authutil.ValidateEmail(req.Email); err != nil {
		h.ErrLog.LogBadRequest(w, r, "signup: bad email", err, msgInvalidEmail)
		return
	}
	if req.UID == "" {
		if err := authutil.ValidatePassword(req.Password); err != nil {
			h.ErrLog.LogBadRequest(w, r, "signup: short password", err, msgShortPass)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	taken, err := h.Users.EmailExistsForOther(ctx, req.Email, primitive.NilObjectID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "email lookup failed", err, "", "")
		return
	}
	if taken {
		h.ErrLog.LogBadRequest(w, r, "signup: email taken", nil, msgEmailTaken)
		return
	}

	valid, err := h.NPI.Valid(ctx, req.NPI)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "npi lookup failed", err, "", "")
		return
	}
	if !valid {
		h.ErrLog.LogBadRequest(w, r, "signup: npi rejected", nil, msgInvalidNPI)
		return
	}

	hash := ""
	if req.UID == "" {
		if hash, err = authutil.HashPassword(req.Password); err != nil {
			h.ErrLog.LogServerError(w, r, "hash password failed", err, "", "")
			return
		}
	}

	u, err := h.Users.Create(ctx, models.User{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Phone:         req.Phone,
		Specialty:     req.Specialty,
		NeedFinancing: req.NeedFinancing,
		NPI:           req.NPI,
		Password:      hash,
	})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		h.ErrLog.LogBadRequest(w, r, "signup: email taken (race)", err, msgEmailTaken)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create user failed", err, "", "")
		return
	}

	method := "password"
	if req.UID != "" {
		method = "google"
		if _, err := h.AuthProviders.Create(ctx, u.ID, req.UID, models.ProviderGoogle); err != nil {
			h.ErrLog.LogServerError(w, r, "bind google account failed", err, "", "")
			return
		}
	}

	if h.Notifier != nil {
		h.Notifier.Dispatch(mailer.BuildWelcome(u))
		h.Notifier.ToAdmin(mailer.BuildNewAccount(u))
		h.Metrics.EmailDispatched("signup")
	}
	h.Audit.Signup(ctx, r, u.ID, method)
	h.Log.Info("user signed up",
		zap.String("user_id", u.ID.Hex()),
		zap.String("method", method))

	respond.OK(w, "Signed Up successfully.", nil)
}
