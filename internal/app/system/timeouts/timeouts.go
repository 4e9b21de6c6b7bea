// Package timeouts holds the deadlines applied to database and outbound
// calls made while serving a request.
//
// Handlers wrap r.Context() with one of these before touching MongoDB:
//   - Ping: health checks
//   - Short: single-document reads and writes
//   - Medium: listing searches, counts, and fan-out aggregates
//   - Long: outbound calls (NPI registry, Google, Mailgun)
//
// Values can be overridden at startup with Configure or ConfigureFromEnv.
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
)

var mu sync.RWMutex

var (
	ping   = DefaultPing
	short  = DefaultShort
	medium = DefaultMedium
	long   = DefaultLong
)

func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

func Short() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return short
}

func Medium() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return medium
}

func Long() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return long
}

// Config holds timeout overrides. Zero values keep the current value.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

// Configure applies non-zero values from cfg.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Short > 0 {
		short = cfg.Short
	}
	if cfg.Medium > 0 {
		medium = cfg.Medium
	}
	if cfg.Long > 0 {
		long = cfg.Long
	}
}

// Reset restores the defaults. Used by tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping, short, medium, long = DefaultPing, DefaultShort, DefaultMedium, DefaultLong
}

// ConfigureFromEnv reads PRACTICEFINDER_TIMEOUT_{PING,SHORT,MEDIUM,LONG}
// as Go durations ("5s", "750ms"). Invalid or non-positive values are
// ignored. It returns how many values were applied.
func ConfigureFromEnv() int {
	var cfg Config
	n := 0
	for name, dst := range map[string]*time.Duration{
		"PRACTICEFINDER_TIMEOUT_PING":   &cfg.Ping,
		"PRACTICEFINDER_TIMEOUT_SHORT":  &cfg.Short,
		"PRACTICEFINDER_TIMEOUT_MEDIUM": &cfg.Medium,
		"PRACTICEFINDER_TIMEOUT_LONG":   &cfg.Long,
	} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*dst = d
			n++
		}
	}
	Configure(cfg)
	return n
}

// Current returns the active configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{Ping: ping, Short: short, Medium: medium, Long: long}
}

// WithTimeout is context.WithTimeout whose cancel func logs a warning when
// the deadline was hit.
//
//	ctx, cancel := timeouts.WithTimeout(context.Background(), timeouts.Long(), log, "send like notification")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
