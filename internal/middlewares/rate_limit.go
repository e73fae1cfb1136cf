package middlewares

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/sbilibin2017/gw-expense-tracker/internal/logger"
)

//go:generate mockgen -source=rate_limit.go -destination=rate_limit_mock.go -package=middlewares

// Rate limit messages per scope.
const (
	TooManyRequestsMessage     = "Too many requests from this IP, please try again later."
	TooManyAuthRequestsMessage = "Too many authentication attempts, please try again later."
)

// RateLimiter counts hits of a key within a fixed window.
type RateLimiter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit configures one fixed-window limit.
type RateLimit struct {
	Scope   string        // Key prefix, so limits of different scopes do not share counters
	Limit   int64         // Requests allowed per window
	Window  time.Duration // Window length
	Message string        // Error returned once the limit is exceeded
}

// RateLimitMiddleware rejects clients that exceed the limit with 429.
// When the limiter fails the request is let through.
func RateLimitMiddleware(limiter RateLimiter, limit RateLimit) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := limit.Scope + ":" + clientIP(r)

			count, err := limiter.Hit(r.Context(), key, limit.Window)
			if err != nil {
				logger.Log.Errorw("rate limiter unavailable", "key", key, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			remaining := limit.Limit - count
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("RateLimit-Limit", strconv.FormatInt(limit.Limit, 10))
			w.Header().Set("RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > limit.Limit {
				logger.Log.Warnw("rate limit exceeded", "key", key, "count", count)
				writeError(w, http.StatusTooManyRequests, limit.Message)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the host part of the socket address. Forwarding headers are
// client controlled and are not consulted.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
