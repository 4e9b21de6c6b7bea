// internal/app/features/practice/likes.go
package practice

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/practicefinder/internal/app/system/authz"
	"github.com/dalemusser/practicefinder/internal/app/system/mailer"
	"github.com/dalemusser/practicefinder/internal/app/system/respond"
	"github.com/dalemusser/practicefinder/internal/app/system/timeouts"
	"github.com/dalemusser/practicefinder/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	msgUserNotFound = "User not found."
	msgLikeAdded    = "Practice added to likes."
	msgLikeRemoved  = "Practice removed from likes."
)

// ServeLike handles GET /practice/{id}/like. It toggles the listing in
// the caller's likes. Only the add path notifies, once to the admin and
// once to the user; removal sends nothing.
func (h *Handler) ServeLike(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.LogNotFound(w, r, "like: no usable caller id", msgUserNotFound)
		return
	}
	pid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogNotFound(w, r, "like: malformed practice id", msgPracticeNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, uid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.ErrLog.LogNotFound(w, r, "like: no such user", msgUserNotFound)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user failed", err, "", "")
		return
	}

	exists, err := h.Listings.Exists(ctx, pid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "check practice failed", err, "", "")
		return
	}
	if !exists {
		h.ErrLog.LogNotFound(w, r, "like: no such practice", msgPracticeNotFound)
		return
	}

	liked, err := h.Users.ToggleLike(ctx, uid, pid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "toggle like failed", err, "", "")
		return
	}
	h.Metrics.LikeToggled(liked)

	if !liked {
		respond.OK(w, msgLikeRemoved, map[string]bool{"liked": false})
		return
	}

	// The full listing is only needed for the notification bodies.
	if p, err := h.Listings.GetByID(ctx, pid); err != nil {
		h.Log.Warn("like: load practice for notification failed",
			zap.String("practice_id", pid.Hex()), zap.Error(err))
	} else {
		h.notifyLike(*user, *p)
	}
	h.Log.Info("listing liked",
		zap.String("user_id", uid.Hex()),
		zap.String("practice_id", pid.Hex()))
	respond.OK(w, msgLikeAdded, map[string]bool{"liked": true})
}

func (h *Handler) notifyLike(u models.User, p models.Practice) {
	if h.Notifier == nil {
		return
	}
	h.Notifier.ToAdmin(mailer.BuildLikeAdmin(u, p, h.SiteDomain))
	h.Notifier.Dispatch(mailer.BuildLikeUser(u, p, h.SiteDomain))
	h.Metrics.EmailDispatched("like")
}

// ServeLikes handles GET /practice/likes for the caller.
func (h *Handler) ServeLikes(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.LogNotFound(w, r, "likes: no usable caller id", msgUserNotFound)
		return
	}
	h.serveLikesOf(w, r, uid)
}

// ServeLikedListings handles GET /practice/{id}/liked-listings.
func (h *Handler) ServeLikedListings(w http.ResponseWriter, r *http.Request) {
	uid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogNotFound(w, r, "liked-listings: malformed user id", msgUserNotFound)
		return
	}
	h.serveLikesOf(w, r, uid)
}

// serveLikesOf resolves the stored likes of uid in stored order and prunes
// every reference whose listing no longer exists.
func (h *Handler) serveLikesOf(w http.ResponseWriter, r *http.Request, uid primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, uid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.ErrLog.LogNotFound(w, r, "likes: no such user", msgUserNotFound)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user failed", err, "", "")
		return
	}

	likes, err := h.Listings.Summaries(ctx, user.Likes)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "resolve likes failed", err, "", "")
		return
	}

	if stale := staleLikes(user.Likes, likes); len(stale) > 0 {
		n, err := h.Users.PruneLikes(ctx, uid, stale)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "prune likes failed", err, "", "")
			return
		}
		if n > 0 {
			h.Log.Info("pruned stale likes",
				zap.String("user_id", uid.Hex()),
				zap.Int("stale", len(stale)))
		}
	}

	respond.OK(w, "", map[string]any{"likes": likes})
}

// staleLikes returns the stored ids with no resolved listing.
func staleLikes(stored []primitive.ObjectID, found []models.PracticeSummary) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool, len(found))
	for _, p := range found {
		seen[p.ID] = true
	}
	var stale []primitive.ObjectID
	for _, id := range stored {
		if !seen[id] {
			stale = append(stale, id)
		}
	}
	return stale
}
