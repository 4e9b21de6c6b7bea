package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const testSecret = "test-token-secret-must-be-32-chars-long"

func newTestManager(t *testing.T) *TokenManager {
	t.Helper()
	m, err := NewTokenManager(testSecret, time.Hour, zap.NewNop())
	if err != nil {
		t.Fatalf("NewTokenManager failed: %v", err)
	}
	return m
}

func TestNewTokenManager_EmptySecret(t *testing.T) {
	if _, err := NewTokenManager("", time.Hour, zap.NewNop()); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestNewTokenManager_DefaultTTL(t *testing.T) {
	m, err := NewTokenManager(testSecret, 0, zap.NewNop())
	if err != nil {
		t.Fatalf("NewTokenManager failed: %v", err)
	}
	if m.TTL() != DefaultTokenTTL {
		t.Errorf("TTL: got %v, want %v", m.TTL(), DefaultTokenTTL)
	}
}

func TestIssueParse_RoundTrip(t *testing.T) {
	m := newTestManager(t)

	tok, err := m.Issue("64b7f0c2a1b2c3d4e5f60718", "ADMIN")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	claims, err := m.Parse(tok)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.UserID != "64b7f0c2a1b2c3d4e5f60718" || claims.Role != "ADMIN" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Fatal("expected exp and iat to be set")
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Errorf("lifetime: got %v, want 1h", got)
	}
}

func TestParse_Expired(t *testing.T) {
	m := newTestManager(t)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, err := m.Issue("u1", "USER")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	m.now = time.Now
	if _, err := m.Parse(tok); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	m := newTestManager(t)
	other, _ := NewTokenManager("a-different-secret-that-is-32-chars!!", time.Hour, zap.NewNop())

	tok, _ := other.Issue("u1", "USER")
	if _, err := m.Parse(tok); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParse_RejectsNoneAlg(t *testing.T) {
	m := newTestManager(t)
	claims := Claims{
		UserID: "u1",
		Role:   "ADMIN",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing none token failed: %v", err)
	}
	if _, err := m.Parse(tok); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for alg=none, got %v", err)
	}
}

func TestParse_MissingExpiry(t *testing.T) {
	m := newTestManager(t)
	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "u1"}).SignedString([]byte(testSecret))
	if _, err := m.Parse(tok); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken without exp, got %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi"},
		{"bearer   abc", "abc"},
		{"Basic dXNlcg==", ""},
		{"Bearer", ""},
		{"", ""},
	}
	for _, tt := range tests {
		r := newRequestWithAuth(tt.header)
		if got := bearerToken(r); got != tt.want {
			t.Errorf("bearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestIssue_ProducesThreeSegments(t *testing.T) {
	m := newTestManager(t)
	tok, _ := m.Issue("u1", "USER")
	if n := strings.Count(tok, "."); n != 2 {
		t.Errorf("token has %d dots, want 2", n)
	}
}

func newRequestWithAuth(header string) *http.Request {
	r := httptest.NewRequest("GET", "/", nil)
	if header != "" {
		r.Header.Set("Authorization", header)
	}
	return r
}
