package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is a per-client-IP token bucket. Buckets refill continuously at
// rate tokens per second up to bucketSize.
type RateLimiter struct {
	mu         sync.Mutex
	tokens     map[string]float64
	lastRefill map[string]time.Time
	rate       float64
	bucketSize float64
	lastPrune  time.Time
}

// NewRateLimiter creates a limiter allowing rate requests per second with a
// burst of bucketSize.
func NewRateLimiter(rate, bucketSize float64) *RateLimiter {
	return &RateLimiter{
		tokens:     make(map[string]float64),
		lastRefill: make(map[string]time.Time),
		rate:       rate,
		bucketSize: bucketSize,
		lastPrune:  time.Now(),
	}
}

// RateLimit rejects requests from clients that exhausted their bucket.
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		rl.mu.Lock()
		now := time.Now()

		if _, exists := rl.lastRefill[ip]; !exists {
			rl.tokens[ip] = rl.bucketSize
			rl.lastRefill[ip] = now
		}

		elapsed := now.Sub(rl.lastRefill[ip]).Seconds()
		rl.tokens[ip] = minFloat(rl.bucketSize, rl.tokens[ip]+elapsed*rl.rate)
		rl.lastRefill[ip] = now

		if rl.tokens[ip] < 1 {
			rl.mu.Unlock()
			c.Header("Retry-After", "1")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			c.Abort()
			return
		}
		rl.tokens[ip]--

		// Forget clients idle long enough to have refilled a full bucket, so
		// the maps do not grow without bound.
		if now.Sub(rl.lastPrune) > 10*time.Minute {
			idle := time.Duration(rl.bucketSize/rl.rate) * time.Second
			for client, last := range rl.lastRefill {
				if now.Sub(last) > idle+10*time.Minute {
					delete(rl.tokens, client)
					delete(rl.lastRefill, client)
				}
			}
			rl.lastPrune = now
		}
		rl.mu.Unlock()

		c.Next()
	}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
