package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/practicefinder/internal/app/system/respond"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionUser is the identity carried by a verified token.
type SessionUser struct {
	ID   string
	Role string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok && u != nil
}

// WithTestUser injects u without a token. Used by handler tests.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	msgNoToken      = "Authentication failed: No token provided"
	msgInvalidToken = "Authentication failed: Invalid token"
	msgAdminOnly    = "Access denied: admin only"
)

// RequireSignedIn verifies the bearer token and places the caller in the
// request context. Missing and invalid tokens get a 401.
func (m *TokenManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			respond.Fail(w, http.StatusUnauthorized, msgNoToken)
			return
		}
		claims, err := m.Parse(raw)
		if err != nil {
			m.log.Debug("token rejected", zap.Error(err), zap.String("path", r.URL.Path))
			respond.Fail(w, http.StatusUnauthorized, msgInvalidToken)
			return
		}
		next.ServeHTTP(w, withUser(r, &SessionUser{ID: claims.UserID, Role: claims.Role}))
	})
}

// RequireRole runs after RequireSignedIn. A caller without one of the
// allowed roles gets an explicit 403; every path writes a response.
func (m *TokenManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToUpper(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				respond.Fail(w, http.StatusUnauthorized, msgNoToken)
				return
			}
			if _, has := set[strings.ToUpper(u.Role)]; !has {
				respond.Fail(w, http.StatusForbidden, msgAdminOnly)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is RequireSignedIn followed by RequireRole("ADMIN").
func (m *TokenManager) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireSignedIn(m.RequireRole("ADMIN")(next))
}

func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}
