// Package metrics exposes Prometheus counters for the API and the
// middleware that records request totals and latency.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector the API records into.
type Metrics struct {
	reg *prometheus.Registry

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	searches prometheus.Counter
	likes    *prometheus.CounterVec
	signins  *prometheus.CounterVec
	emails   *prometheus.CounterVec
}

// New registers the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "practicefinder",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status code.",
		}, []string{"route", "method", "code"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "practicefinder",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		searches: f.NewCounter(prometheus.CounterOpts{
			Namespace: "practicefinder",
			Name:      "listing_searches_total",
			Help:      "Listing searches served.",
		}),
		likes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "practicefinder",
			Name:      "listing_like_toggles_total",
			Help:      "Like toggles by resulting state (liked|unliked).",
		}, []string{"result"}),
		signins: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "practicefinder",
			Name:      "signins_total",
			Help:      "Sign-in attempts by method and outcome.",
		}, []string{"method", "outcome"}),
		emails: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "practicefinder",
			Name:      "emails_dispatched_total",
			Help:      "Notification emails handed to the mailer, by kind.",
		}, []string{"kind"}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry (tests gather from it).
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Search counts one listing search.
func (m *Metrics) Search() {
	if m != nil {
		m.searches.Inc()
	}
}

// LikeToggled counts a like toggle.
func (m *Metrics) LikeToggled(liked bool) {
	if m == nil {
		return
	}
	result := "unliked"
	if liked {
		result = "liked"
	}
	m.likes.WithLabelValues(result).Inc()
}

// Signin counts a sign-in attempt. method is "password" or "google".
func (m *Metrics) Signin(method, outcome string) {
	if m != nil {
		m.signins.WithLabelValues(method, outcome).Inc()
	}
}

// EmailDispatched counts a notification email.
func (m *Metrics) EmailDispatched(kind string) {
	if m != nil {
		m.emails.WithLabelValues(kind).Inc()
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Middleware records request count and latency by chi route pattern, so
// ids in paths do not explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(sw.code)).Inc()
		m.latency.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
