package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/JonMunkholm/sheetcsv/internal/logging"
)

// RateLimiter throttles requests per client IP with a token bucket.
type RateLimiter struct {
	mu         sync.Mutex
	limiters   map[string]*rate.Limiter
	lastAccess map[string]time.Time

	limit rate.Limit
	burst int
	idle  time.Duration

	// OnLimit writes the rejection response. Defaults to a plain 429.
	OnLimit func(w http.ResponseWriter, r *http.Request)
}

// NewRateLimiter allows requestsPerMinute sustained requests per IP with
// bursts of up to burst requests.
func NewRateLimiter(requestsPerMinute, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limiters:   make(map[string]*rate.Limiter),
		lastAccess: make(map[string]time.Time),
		limit:      rate.Every(time.Minute / time.Duration(max(requestsPerMinute, 1))),
		burst:      burst,
		idle:       10 * time.Minute,
	}
}

// Allow reports whether a request from ip may proceed now.
func (rl *RateLimiter) Allow(ip string) bool {
	return rl.limiterFor(ip).Allow()
}

func (rl *RateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.limiters[ip]
	if !ok {
		l = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[ip] = l
	}
	rl.lastAccess[ip] = time.Now()
	return l
}

// Cleanup drops limiters idle for longer than the idle window and returns
// how many were removed.
func (rl *RateLimiter) Cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-rl.idle)
	removed := 0
	for ip, seen := range rl.lastAccess {
		if seen.Before(cutoff) {
			delete(rl.limiters, ip)
			delete(rl.lastAccess, ip)
			removed++
		}
	}
	return removed
}

// Run calls Cleanup every minute until ctx is cancelled.
func (rl *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Cleanup()
		}
	}
}

// Handler rejects requests over the limit with 429 and a Retry-After header.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIP(r)
		if !rl.Allow(ip) {
			logging.FromContext(r.Context()).Warn("rate limit exceeded", "ip", ip)
			w.Header().Set("Retry-After", "60")
			if rl.OnLimit != nil {
				rl.OnLimit(w, r)
				return
			}
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
