package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/practicefinder/internal/app/system/timeouts"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client *mongo.Client
	Redis  *redis.Client // optional
	Log    *zap.Logger
}

// NewHandler constructs a health Handler. rdb may be nil when no count
// cache is configured.
func NewHandler(client *mongo.Client, rdb *redis.Client, logger *zap.Logger) *Handler {
	return &Handler{
		Client: client,
		Redis:  rdb,
		Log:    logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
	Message  string `json:"message,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "cache":"connected|disabled|degraded" }
//
// On DB failure: 503 and
//
//	{ "status":"error", "database":"disconnected", "message":"Database unavailable" }
//
// A failing cache only degrades the report; listings still work without it.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
		Cache:    "disabled",
	}

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	if h.Redis != nil {
		resp.Cache = "connected"
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			h.Log.Warn("health-check: redis ping failed", zap.Error(err))
			resp.Cache = "degraded"
		}
	}

	_ = json.NewEncoder(w).Encode(resp)
}
