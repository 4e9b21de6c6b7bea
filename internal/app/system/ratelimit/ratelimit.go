// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/practicefinder/internal/app/system/normalize"
	"github.com/dalemusser/practicefinder/internal/app/system/respond"
)

// Limiter counts requests per key in fixed windows. Safe for concurrent use.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	duration time.Duration
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a limiter allowing limit requests per key every duration.
// Call Close to stop the background sweep.
func New(limit int, duration time.Duration) *Limiter {
	l := &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go l.sweepLoop(duration * 2)
	return l
}

// Allow records a request for key and reports whether it is within limits.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.After(w.expiresAt) {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.duration)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Remaining is how many requests key has left in its current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || l.now().After(w.expiresAt) {
		return l.limit
	}
	return max(l.limit-w.count, 0)
}

// Reset forgets key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// Close stops the sweep goroutine.
func (l *Limiter) Close() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *Limiter) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.mu.Lock()
			now := l.now()
			for key, w := range l.windows {
				if now.After(w.expiresAt) {
					delete(l.windows, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

// Middleware rejects requests over the per-IP limit with a 429 envelope.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(ClientIP(r)) {
			w.Header().Set("Retry-After", retryAfter(l.duration))
			respond.Fail(w, http.StatusTooManyRequests, msgTooManyIP)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func retryAfter(d time.Duration) string {
	return strconv.Itoa(max(int(d.Round(time.Second)/time.Second), 1))
}

// ClientIP is the first X-Forwarded-For hop, then X-Real-IP, then the
// RemoteAddr host.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

/*─────────────────────────────────────────────────────────────────────────────*
| Sign-in                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	msgTooManyIP      = "Too many sign-in attempts. Please wait a minute before trying again."
	msgTooManyAccount = "Too many sign-in attempts for this account. Please wait a few minutes."
)

// SigninLimiter limits sign-in attempts per client IP and per email.
type SigninLimiter struct {
	ip    *Limiter
	email *Limiter
}

// NewSigninLimiter allows 10 attempts per IP per minute and 5 per email
// every 5 minutes.
func NewSigninLimiter() *SigninLimiter {
	return NewSigninLimiterWithConfig(10, time.Minute, 5, 5*time.Minute)
}

// NewSigninLimiterWithConfig builds a limiter with custom windows.
func NewSigninLimiterWithConfig(ipLimit int, ipWindow time.Duration, emailLimit int, emailWindow time.Duration) *SigninLimiter {
	return &SigninLimiter{
		ip:    New(ipLimit, ipWindow),
		email: New(emailLimit, emailWindow),
	}
}

// Check records an attempt. When it is refused, msg is the user-facing
// reason.
func (sl *SigninLimiter) Check(r *http.Request, email string) (ok bool, msg string) {
	if !sl.ip.Allow(ClientIP(r)) {
		return false, msgTooManyIP
	}
	if key := normalize.Email(email); key != "" && !sl.email.Allow(key) {
		return false, msgTooManyAccount
	}
	return true, ""
}

// Succeeded clears the per-email counter after a good sign-in.
func (sl *SigninLimiter) Succeeded(email string) {
	if key := normalize.Email(email); key != "" {
		sl.email.Reset(key)
	}
}

// Close stops both limiters.
func (sl *SigninLimiter) Close() {
	sl.ip.Close()
	sl.email.Close()
}
