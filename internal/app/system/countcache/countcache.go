// Package countcache caches the per-state listing counts. Redis is used
// when configured; otherwise counts are kept in process memory.
package countcache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Counts maps a state name to its listing count.
type Counts map[string]int64

// Cache stores Counts under a key.
type Cache interface {
	Get(ctx context.Context, key string) (Counts, bool)
	Set(ctx context.Context, key string, c Counts)
}

// Connect returns a Redis client for addr, or nil when addr is empty or
// the server does not answer a ping.
func Connect(ctx context.Context, addr string, logger *zap.Logger) *redis.Client {
	if addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable; using in-memory count cache",
			zap.String("addr", addr), zap.Error(err))
		_ = rdb.Close()
		return nil
	}
	logger.Info("redis connected", zap.String("addr", addr))
	return rdb
}

/*─────────────────────────────────────────────────────────────────────────────*
| Redis                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// Redis stores counts as JSON strings with a TTL.
type Redis struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
	log    *zap.Logger
}

// NewRedis wraps rdb. Keys are prefixed with "practicefinder:counts:".
func NewRedis(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Redis {
	return &Redis{rdb: rdb, ttl: ttl, prefix: "practicefinder:counts:", log: logger}
}

// Get implements Cache. Errors other than a miss are logged and treated
// as a miss.
func (r *Redis) Get(ctx context.Context, key string) (Counts, bool) {
	b, err := r.rdb.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		r.log.Warn("count cache get failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	var c Counts
	if err := json.Unmarshal(b, &c); err != nil {
		r.log.Warn("count cache decode failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return c, true
}

// Set implements Cache.
func (r *Redis) Set(ctx context.Context, key string, c Counts) {
	b, err := json.Marshal(c)
	if err != nil {
		return
	}
	if err := r.rdb.Set(ctx, r.prefix+key, b, r.ttl).Err(); err != nil {
		r.log.Warn("count cache set failed", zap.String("key", key), zap.Error(err))
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Memory                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

type memEntry struct {
	counts  Counts
	expires time.Time
}

// Memory is an in-process Cache.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memEntry
}

// NewMemory returns a Memory cache. A zero ttl disables caching.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, now: time.Now, entries: make(map[string]memEntry)}
}

// Get implements Cache.
func (m *Memory) Get(_ context.Context, key string) (Counts, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok || !m.now().Before(e.expires) {
		return nil, false
	}
	return e.counts, true
}

// Set implements Cache.
func (m *Memory) Set(_ context.Context, key string, c Counts) {
	if m.ttl <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memEntry{counts: c, expires: m.now().Add(m.ttl)}
}
