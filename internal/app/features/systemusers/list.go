// internal/app/features/systemusers/list.go
package systemusers

import (
	"context"
	"net/http"

	"github.com/dalemusser/practicefinder/internal/app/system/authz"
	"github.com/dalemusser/practicefinder/internal/app/system/respond"
	"github.com/dalemusser/practicefinder/internal/app/system/timeouts"
	"github.com/dalemusser/practicefinder/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// likeRef is a liked listing as shown in the admin user list.
type likeRef struct {
	ID     primitive.ObjectID `json:"_id"`
	Number int                `json:"id"`
	Name   string             `json:"name"`
}

// userRow shadows User.Likes with the resolved references.
type userRow struct {
	models.User
	Likes []likeRef `json:"likes"`
}

// ServeList handles GET /user/list: every user except the caller, newest
// first, without password hashes. Likes of deleted listings are dropped.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, self, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := h.Users.ListExcept(ctx, self)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list users failed", err, "", "")
		return
	}

	seen := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	for _, u := range users {
		for _, id := range u.Likes {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	summaries, err := h.Listings.Summaries(ctx, ids)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "resolve likes failed", err, "", "")
		return
	}
	byID := make(map[primitive.ObjectID]likeRef, len(summaries))
	for _, s := range summaries {
		byID[s.ID] = likeRef{ID: s.ID, Number: s.Number, Name: s.Name}
	}

	rows := make([]userRow, len(users))
	for i, u := range users {
		likes := make([]likeRef, 0, len(u.Likes))
		for _, id := range u.Likes {
			if ref, ok := byID[id]; ok {
				likes = append(likes, ref)
			}
		}
		rows[i] = userRow{User: u, Likes: likes}
	}

	respond.OK(w, "", map[string]any{"users": rows})
}
