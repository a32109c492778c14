package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/luminagems/gemstore/internal/api"
)

// WindowCounter increments a fixed-window counter for key and returns the
// count within the current window.
type WindowCounter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit enforces a fixed-window per-client request cap on search routes.
// The counter lives in an external keyed store so the cap holds across
// instances. Counter failures fail open: search must not go down with redis.
func RateLimit(counter WindowCounter, requests int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if counter == nil || requests <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			// Keyed per client and per route so a burst against one
			// endpoint does not exhaust the window for the others.
			key := "ratelimit:" + clientIP(r) + ":" + r.URL.Path
			count, err := counter.IncrWindow(r.Context(), key, window)
			if err != nil {
				log.Printf("rate_limit_counter_error: %v", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(requests))
			remaining := int64(requests) - count
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(requests) {
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
				api.Error(w, http.StatusTooManyRequests, "too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
