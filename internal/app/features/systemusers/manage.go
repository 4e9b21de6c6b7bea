// internal/app/features/systemusers/manage.go
package systemusers

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/practicefinder/internal/app/system/authz"
	"github.com/dalemusser/practicefinder/internal/app/system/mailer"
	"github.com/dalemusser/practicefinder/internal/app/system/respond"
	"github.com/dalemusser/practicefinder/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const msgAlreadyActive = "Account was already activated or couldn't be updated."

func (h *Handler) targetID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogNotFound(w, r, "malformed user id", msgUserNotFound)
		return primitive.NilObjectID, false
	}
	return id, true
}

// HandleActivate handles GET /user/{id}/activate.
func (h *Handler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.targetID(w, r)
	if !ok {
		return
	}
	_, actor, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.ErrLog.LogNotFound(w, r, "activate: no such user", msgUserNotFound)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user failed", err, "", "")
		return
	}
	if u.Activated {
		respond.Fail(w, http.StatusBadRequest, msgAlreadyActive)
		return
	}

	changed, err := h.Users.Activate(ctx, id)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		h.ErrLog.LogServerError(w, r, "activate user failed", err, "", "")
		return
	}
	if !changed {
		respond.Fail(w, http.StatusBadRequest, msgAlreadyActive)
		return
	}

	if h.Notifier != nil {
		h.Notifier.Dispatch(mailer.BuildActivated(*u))
		h.Metrics.EmailDispatched("activated")
	}
	h.Audit.UserActivated(ctx, r, actor, id)
	h.Log.Info("user activated", zap.String("user_id", id.Hex()), zap.String("actor_id", actor.Hex()))

	respond.OK(w, "Account activated successfully.", nil)
}

// HandleDelete handles DELETE /user/{id}. The user's Google bindings go
// with them. An admin cannot delete their own account.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.targetID(w, r)
	if !ok {
		return
	}
	_, actor, _ := authz.UserCtx(r)
	if id == actor {
		h.ErrLog.LogBadRequest(w, r, "delete: self", nil, "You cannot delete your own account.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.ErrLog.LogNotFound(w, r, "delete: no such user", msgUserNotFound)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user failed", err, "", "")
		return
	}

	if _, err := h.Users.Delete(ctx, id); err != nil {
		h.ErrLog.LogServerError(w, r, "delete user failed", err, "", "")
		return
	}
	bindings, err := h.AuthProviders.DeleteByUser(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete auth providers failed", err, "", "")
		return
	}

	h.Audit.UserDeleted(ctx, r, actor, id, u.Email)
	h.Log.Info("user deleted",
		zap.String("user_id", id.Hex()),
		zap.String("actor_id", actor.Hex()),
		zap.Int64("bindings", bindings))

	respond.OK(w, "User deleted successfully.", nil)
}
