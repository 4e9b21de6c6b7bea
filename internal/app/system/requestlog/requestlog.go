// Package requestlog tags each request with an id and writes one
// structured log line when it completes.
package requestlog

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Header carries the request id in and out.
const Header = "X-Request-ID"

type ctxKey struct{}

// ID returns the request id placed by Middleware, or "".
func ID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

type recorder struct {
	http.ResponseWriter
	code  int
	bytes int
}

func (w *recorder) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *recorder) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (w *recorder) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Middleware reuses an incoming X-Request-ID or makes a new UUID, echoes
// it on the response and logs method, path, status, size and latency.
// 5xx responses are logged at error level.
func Middleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(Header)
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}
			w.Header().Set(Header, id)

			start := time.Now()
			rec := &recorder{ResponseWriter: w, code: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))

			fields := []zap.Field{
				zap.String("request_id", id),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.code),
				zap.Int("bytes", rec.bytes),
				zap.Duration("took", time.Since(start)),
			}
			if rec.code >= 500 {
				logger.Error("request", fields...)
				return
			}
			logger.Info("request", fields...)
		})
	}
}
