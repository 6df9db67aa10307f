package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type sessionLimiter struct {
	limiter *rate.Limiter
	last    time.Time
}

// RateLimiter hands out one token bucket per portal session
type RateLimiter struct {
	limit rate.Limit
	burst int
	idle  time.Duration

	mu       sync.Mutex
	limiters map[string]*sessionLimiter
}

// NewRateLimiter allows perMinute requests per session with the given
// burst. A non-positive perMinute disables limiting.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    burst,
		idle:     30 * time.Minute,
		limiters: make(map[string]*sessionLimiter),
	}
}

// Allow consumes one token for key
func (rl *RateLimiter) Allow(key string) bool {
	if rl.limit <= 0 {
		return true
	}
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	sl, ok := rl.limiters[key]
	if !ok {
		sl = &sessionLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = sl
	}
	sl.last = now
	return sl.limiter.AllowN(now, 1)
}

// Cleanup forgets buckets unused for longer than the idle period
func (rl *RateLimiter) Cleanup() {
	cutoff := time.Now().Add(-rl.idle)
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, sl := range rl.limiters {
		if sl.last.Before(cutoff) {
			delete(rl.limiters, key)
		}
	}
}

// Limit returns the middleware. It keys on the portal session and falls
// back to the client IP.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		key := c.GetString(SessionIDKey)
		if key == "" {
			key = c.ClientIP()
		}
		if !rl.Allow(key) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please try again shortly."})
			c.Abort()
			return
		}
		c.Next()
	})
}
