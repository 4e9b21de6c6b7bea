package googleid_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/practicefinder/internal/app/system/googleid"
)

func newUserInfoServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sub":"g-123","email":"jane@example.com","given_name":"Jane","family_name":"Doe"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestUserInfo_Resolve(t *testing.T) {
	srv := newUserInfoServer(t)
	r := googleid.NewUserInfo(srv.URL)

	id, err := r.Resolve(t.Context(), "good-token")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := googleid.Identity{Email: "jane@example.com", UID: "g-123", FirstName: "Jane", LastName: "Doe"}
	if *id != want {
		t.Errorf("got %+v, want %+v", *id, want)
	}
}

func TestUserInfo_Resolve_Rejected(t *testing.T) {
	srv := newUserInfoServer(t)
	r := googleid.NewUserInfo(srv.URL)

	if _, err := r.Resolve(t.Context(), "bad-token"); err == nil {
		t.Error("expected error for rejected token")
	}
}

func TestNewUserInfo_DefaultURL(t *testing.T) {
	if got := googleid.NewUserInfo("").URL; got != googleid.DefaultUserInfoURL {
		t.Errorf("URL = %q, want default", got)
	}
}
