package health_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/practicefinder/internal/app/features/health"
	"github.com/dalemusser/practicefinder/internal/testutil"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type healthBody struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
	Message  string `json:"message"`
}

func serve(t *testing.T, h *health.Handler) (*httptest.ResponseRecorder, healthBody) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Serve(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body healthBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return rec, body
}

func TestServe_DatabaseConnected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := health.NewHandler(db.Client(), nil, zap.NewNop())

	rec, body := serve(t, handler)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want %q", ct, "application/json")
	}
	if body.Status != "ok" || body.Database != "connected" {
		t.Errorf("body = %+v", body)
	}
	if body.Cache != "disabled" {
		t.Errorf("cache: got %q, want disabled", body.Cache)
	}
}

func TestServe_CacheDegraded(t *testing.T) {
	db := testutil.SetupTestDB(t)
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond, MaxRetries: -1})
	defer rdb.Close()

	rec, body := serve(t, health.NewHandler(db.Client(), rdb, zap.NewNop()))

	if rec.Code != http.StatusOK {
		t.Errorf("a down cache must not fail health, got %d", rec.Code)
	}
	if body.Cache != "degraded" {
		t.Errorf("cache: got %q, want degraded", body.Cache)
	}
}

func TestServe_DatabaseUnavailable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetServerSelectionTimeout(200*time.Millisecond))
	if err != nil {
		t.Fatalf("mongo.Connect: %v", err)
	}
	defer client.Disconnect(context.Background())

	rec, body := serve(t, health.NewHandler(client, nil, zap.NewNop()))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
	if body.Status != "error" || body.Message != "Database unavailable" {
		t.Errorf("body = %+v", body)
	}
}
