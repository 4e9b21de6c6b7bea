// internal/app/features/systemusers/update.go
package systemusers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/practicefinder/internal/app/store/users"
	"github.com/dalemusser/practicefinder/internal/app/system/authz"
	"github.com/dalemusser/practicefinder/internal/app/system/mailer"
	"github.com/dalemusser/practicefinder/internal/app/system/normalize"
	"github.com/dalemusser/practicefinder/internal/app/system/respond"
	"github.com/dalemusser/practicefinder/internal/app/system/timeouts"
	"github.com/dalemusser/practicefinder/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	msgForbidden  = "Access denied."
	msgEmailInUse = "Email already in use."
	msgInvalidNPI = "Invalid NPI."
	msgNoChanges  = "No changes were made."
	msgUpdated    = "Account information updated successfully."
)

// updateRequest is a partial profile. Absent or empty strings leave the
// field alone.
type updateRequest struct {
	FirstName     *string `json:"firstName"`
	LastName      *string `json:"lastName"`
	Email         *string `json:"email"`
	NPI           *string `json:"npi"`
	Phone         *string `json:"phone"`
	Specialty     *string `json:"specialty"`
	NeedFinancing *bool   `json:"needFinancing"`
}

// changedString returns the new value when v is present, non-empty and
// differs from cur once normalized.
func changedString(v *string, cur string, norm func(string) string) (*string, bool) {
	if v == nil {
		return nil, false
	}
	s := norm(*v)
	if s == "" || s == cur {
		return nil, false
	}
	return &s, true
}

// diff compares req with u and returns the update plus the labels of the
// changed fields, in a fixed order.
func diff(req updateRequest, u *models.User) (userstore.ProfileUpdate, []string) {
	var upd userstore.ProfileUpdate
	var labels []string

	if v, ok := changedString(req.FirstName, u.FirstName, normalize.Name); ok {
		upd.FirstName = v
		labels = append(labels, "First Name")
	}
	if v, ok := changedString(req.LastName, u.LastName, normalize.Name); ok {
		upd.LastName = v
		labels = append(labels, "Last Name")
	}
	if v, ok := changedString(req.Phone, u.Phone, normalize.Phone); ok {
		upd.Phone = v
		labels = append(labels, "Phone")
	}
	if v, ok := changedString(req.Specialty, u.Specialty, strings.TrimSpace); ok {
		upd.Specialty = v
		labels = append(labels, "Specialty")
	}
	if req.NeedFinancing != nil && *req.NeedFinancing != u.NeedFinancing {
		upd.NeedFinancing = req.NeedFinancing
		labels = append(labels, "Financing Option")
	}
	if v, ok := changedString(req.Email, u.Email, normalize.Email); ok {
		upd.Email = v
		labels = append(labels, "Email")
	}
	if v, ok := changedString(req.NPI, u.NPI, normalize.NPI); ok {
		upd.NPI = v
		labels = append(labels, "NPI")
	}
	return upd, labels
}

// HandleUpdate handles PATCH /user/{id}/update. Callers may update their
// own profile; admins may update anyone's.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.targetID(w, r)
	if !ok {
		return
	}
	if !authz.CanActOnUser(r, id) {
		respond.Fail(w, http.StatusForbidden, msgForbidden)
		return
	}
	_, actor, _ := authz.UserCtx(r)

	var req updateRequest
	if err := respond.Decode(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "update: bad body", err, "Invalid request body.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.ErrLog.LogNotFound(w, r, "update: no such user", msgUserNotFound)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user failed", err, "", "")
		return
	}

	upd, changed := diff(req, u)

	if upd.Email != nil {
		taken, err := h.Users.EmailExistsForOther(ctx, *upd.Email, id)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "email lookup failed", err, "", "")
			return
		}
		if taken {
			h.ErrLog.LogBadRequest(w, r, "update: email in use", nil, msgEmailInUse)
			return
		}
	}
	if upd.NPI != nil {
		valid, err := h.NPI.Valid(ctx, *upd.NPI)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "npi lookup failed", err, "", "")
			return
		}
		if !valid {
			h.ErrLog.LogBadRequest(w, r, "update: npi rejected", nil, msgInvalidNPI)
			return
		}
	}

	if len(changed) == 0 {
		respond.OK(w, msgNoChanges, nil)
		return
	}

	err = h.Users.UpdateProfile(ctx, id, upd)
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		h.ErrLog.LogBadRequest(w, r, "update: email in use (race)", err, msgEmailInUse)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "update profile failed", err, "", "")
		return
	}

	if h.Notifier != nil {
		h.Notifier.Dispatch(mailer.BuildProfileUpdated(*u, changed))
		h.Metrics.EmailDispatched("profile_updated")
	}
	fields := strings.Join(changed, ",")
	h.Audit.UserUpdated(ctx, r, actor, id, fields)
	h.Log.Info("user updated",
		zap.String("user_id", id.Hex()),
		zap.String("actor_id", actor.Hex()),
		zap.String("fields", fields))

	respond.OK(w, msgUpdated, nil)
}
