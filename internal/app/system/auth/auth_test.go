package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/practicefinder/internal/app/system/auth"
	"go.uber.org/zap"
)

func newTestTokenManager(t *testing.T) *auth.TokenManager {
	t.Helper()
	m, err := auth.NewTokenManager("test-token-secret-must-be-32-chars-long", time.Hour, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create token manager: %v", err)
	}
	return m
}

type envelope struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to parse response %q: %v", rec.Body.String(), err)
	}
	return env
}

func protected(t *testing.T, called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		u, ok := auth.CurrentUser(r)
		if !ok {
			t.Error("expected user in context")
		}
		w.Header().Set("X-User", u.ID)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":true}`))
	})
}

func TestRequireSignedIn_NoToken_Returns401(t *testing.T) {
	m := newTestTokenManager(t)
	called := false
	handler := m.RequireSignedIn(protected(t, &called))

	req := httptest.NewRequest("GET", "/api/v1/practice/likes", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if env := decode(t, rec); env.Message != "Authentication failed: No token provided" {
		t.Errorf("message: got %q", env.Message)
	}
	if called {
		t.Error("handler must not run without a token")
	}
}

func TestRequireSignedIn_BadToken_Returns401(t *testing.T) {
	m := newTestTokenManager(t)
	called := false
	handler := m.RequireSignedIn(protected(t, &called))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if env := decode(t, rec); env.Message != "Authentication failed: Invalid token" {
		t.Errorf("message: got %q", env.Message)
	}
	if called {
		t.Error("handler must not run with a bad token")
	}
}

func TestRequireSignedIn_ValidToken_InjectsUser(t *testing.T) {
	m := newTestTokenManager(t)
	tok, _ := m.Issue("user-123", "USER")
	called := false
	handler := m.RequireSignedIn(protected(t, &called))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || !called {
		t.Fatalf("expected handler to run, status %d", rec.Code)
	}
	if got := rec.Header().Get("X-User"); got != "user-123" {
		t.Errorf("user id in context: got %q", got)
	}
}

func TestRequireAdmin(t *testing.T) {
	m := newTestTokenManager(t)
	userTok, _ := m.Issue("u1", "USER")
	adminTok, _ := m.Issue("a1", "ADMIN")

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCalled bool
	}{
		{"no token", "", http.StatusUnauthorized, false},
		{"non-admin gets explicit 403", "Bearer " + userTok, http.StatusForbidden, false},
		{"admin passes", "Bearer " + adminTok, http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := m.RequireAdmin(protected(t, &called))

			req := httptest.NewRequest("GET", "/api/v1/user/list", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
			if called != tt.wantCalled {
				t.Errorf("handler called: got %v, want %v", called, tt.wantCalled)
			}
			if rec.Body.Len() == 0 {
				t.Fatal("every path must write a response body")
			}
			if env := decode(t, rec); env.Status != tt.wantCalled {
				t.Errorf("envelope status: got %v, want %v", env.Status, tt.wantCalled)
			}
		})
	}
}

func TestRequireRole_NoUserInContext(t *testing.T) {
	m := newTestTokenManager(t)
	handler := m.RequireRole("ADMIN")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestWithTestUser(t *testing.T) {
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{ID: "abc", Role: "ADMIN"})
	u, ok := auth.CurrentUser(req)
	if !ok || u.ID != "abc" || u.Role != "ADMIN" {
		t.Errorf("unexpected current user: %+v ok=%v", u, ok)
	}
}
