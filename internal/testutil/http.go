package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/practicefinder/internal/app/system/auth"
	"github.com/dalemusser/practicefinder/internal/app/system/respond"
	"github.com/dalemusser/practicefinder/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser is the identity a handler test places in the request context.
type TestUser struct {
	ID   string
	Role string
}

// AdminUser returns a TestUser with the ADMIN role and a fresh id.
func AdminUser() TestUser {
	return TestUser{ID: primitive.NewObjectID().Hex(), Role: models.RoleAdmin}
}

// RegularUser returns a TestUser with the USER role and a fresh id.
func RegularUser() TestUser {
	return TestUser{ID: primitive.NewObjectID().Hex(), Role: models.RoleUser}
}

// AsUser converts a stored user into a TestUser.
func AsUser(u models.User) TestUser {
	return TestUser{ID: u.ID.Hex(), Role: u.Role}
}

// WithUser adds a user to the request context for testing authenticated handlers.
// This bypasses token verification and injects the user directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{ID: user.ID, Role: user.Role})
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates a request whose body is body encoded as JSON.
func NewJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	return WithUser(httptest.NewRequest(method, target, nil), user)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d (body: %s)", r.Code, expected, r.Body.String())
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}

// Envelope decodes the response envelope. payload, when non-nil, receives
// the decoded payload.
func (r *ResponseRecorder) Envelope(t *testing.T, payload any) respond.Envelope {
	t.Helper()
	var raw struct {
		Status  bool            `json:"status"`
		Message string          `json:"message"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(r.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode envelope: %v (body: %s)", err, r.Body.String())
	}
	if payload != nil && len(raw.Payload) > 0 {
		if err := json.Unmarshal(raw.Payload, payload); err != nil {
			t.Fatalf("decode payload: %v (payload: %s)", err, raw.Payload)
		}
	}
	return respond.Envelope{Status: raw.Status, Message: raw.Message}
}

// AssertMessage checks the envelope message.
func (r *ResponseRecorder) AssertMessage(t *testing.T, expected string) {
	t.Helper()
	if got := r.Envelope(t, nil).Message; got != expected {
		t.Errorf("message: got %q, want %q", got, expected)
	}
}
