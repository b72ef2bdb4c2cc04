package middleware

import (
	"net/http"
	"sync"
	"time"

	"filedrive/internal/platform/config"
)

// Per-minute budgets per principal (or per remote address when the
// request is unauthenticated).
var rateLimits = map[string]int{
	"api_read":  1000,
	"api_write": 100,
	"upload":    30,
}

// ConfigureRateLimits overrides the default budgets from config.
// Zero values keep the defaults.
func ConfigureRateLimits(cfg config.RateLimitConfig) {
	if cfg.APIReadPerMinute > 0 {
		rateLimits["api_read"] = cfg.APIReadPerMinute
	}
	if cfg.APIWritePerMinute > 0 {
		rateLimits["api_write"] = cfg.APIWritePerMinute
	}
	if cfg.UploadPerMinute > 0 {
		rateLimits["upload"] = cfg.UploadPerMinute
	}
}

const staleBucketAge = 10 * time.Minute

type bucket struct {
	tokens float64
	seen   time.Time
}

// RateLimiter is a token bucket limiter keyed by caller and limit
// class. Buckets refill continuously at limit/minute.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	swept   time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		swept:   time.Now(),
	}
}

func (rl *RateLimiter) Allow(key string, limit int) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.swept) > staleBucketAge {
		rl.sweepLocked(now)
	}

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(limit), seen: now}
		rl.buckets[key] = b
	} else {
		b.tokens += now.Sub(b.seen).Minutes() * float64(limit)
		if b.tokens > float64(limit) {
			b.tokens = float64(limit)
		}
		b.seen = now
	}

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (rl *RateLimiter) sweepLocked(now time.Time) {
	for key, b := range rl.buckets {
		if now.Sub(b.seen) > staleBucketAge {
			delete(rl.buckets, key)
		}
	}
	rl.swept = now
}

var defaultLimiter = NewRateLimiter()

func RateLimit(limitType string) func(http.HandlerFunc) http.HandlerFunc {
	limit, ok := rateLimits[limitType]
	if !ok {
		limit = 100
	}

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			key := r.RemoteAddr
			if principal := Principal(r); principal != "" {
				key = principal
			}

			if !defaultLimiter.Allow(key+":"+limitType, limit) {
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next(w, r)
		}
	}
}
