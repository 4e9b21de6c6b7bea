package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/practice/{id}/detail", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/practice/"+id+"/detail", nil))
	}

	got := testutil.ToFloat64(m.requests.WithLabelValues("/practice/{id}/detail", http.MethodGet, "404"))
	if got != 2 {
		t.Errorf("requests counter = %v, want 2", got)
	}
}

func TestDomainCounters(t *testing.T) {
	m := New()
	m.Search()
	m.LikeToggled(true)
	m.LikeToggled(false)
	m.LikeToggled(true)
	m.Signin("password", "ok")
	m.EmailDispatched("like")

	if got := testutil.ToFloat64(m.searches); got != 1 {
		t.Errorf("searches = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.likes.WithLabelValues("liked")); got != 2 {
		t.Errorf("liked = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.signins.WithLabelValues("password", "ok")); got != 1 {
		t.Errorf("signins = %v, want 1", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.Search()
	m.LikeToggled(true)
	m.Signin("google", "fail")
	m.EmailDispatched("x")
}

func TestHandler_Exposes(t *testing.T) {
	m := New()
	m.Search()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "practicefinder_listing_searches_total 1") {
		t.Errorf("metrics output missing search counter")
	}
}
