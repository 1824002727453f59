package httpapi

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/cryptora-app/server/internal/logging"
	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window per-IP limiter backed by Redis, so the
// limit holds across replicas. A Redis outage fails open: throttling is a
// protection, not a correctness requirement.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger logging.Logger
}

func NewRateLimiter(client *redis.Client, limit int, window time.Duration, logger logging.Logger) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window, logger: logger}
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := "ratelimit:" + clientIP(r)

		count, err := l.client.Incr(r.Context(), key).Result()
		if err != nil {
			l.logger.Warn(r.Context(), "rate limiter unavailable", "error", err.Error())
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			l.client.Expire(r.Context(), key, l.window)
		}

		if count > int64(l.limit) {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(l.window.Seconds())))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error": "rate limit exceeded"}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	// middleware.RealIP has already folded X-Forwarded-For into RemoteAddr
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
