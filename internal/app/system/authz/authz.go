// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/practicefinder/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the caller's role (uppercased), Mongo ObjectID, and a
// found flag. If no user is present or the token carried a malformed id,
// it returns "", NilObjectID, false, so ok=true always means a usable id.
func UserCtx(r *http.Request) (role string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return "", primitive.NilObjectID, false
	}
	return strings.ToUpper(user.Role), userID, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, ok := UserCtx(r)
	return ok && role == RoleAdmin
}

// CanActOnUser reports whether the caller may change the profile of
// target: the user themself or any admin.
func CanActOnUser(r *http.Request, target primitive.ObjectID) bool {
	role, self, ok := UserCtx(r)
	if !ok {
		return false
	}
	return role == RoleAdmin || self == target
}
