package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/philippe-delaval/Lesot-bon/pkg/response"
)

// RateLimit applies a per-client-IP sliding window: at most limit requests
// per window. Entries are pruned lazily.
func RateLimit(limit int, window time.Duration) gin.HandlerFunc {
	type bucket struct {
		times []time.Time
	}
	var (
		mu      sync.Mutex
		buckets = map[string]*bucket{}
	)

	return func(c *gin.Context) {
		now := time.Now()
		ip := c.ClientIP()

		mu.Lock()
		b, ok := buckets[ip]
		if !ok {
			b = &bucket{}
			buckets[ip] = b
		}
		cutoff := now.Add(-window)
		kept := b.times[:0]
		for _, t := range b.times {
			if t.After(cutoff) {
				kept = append(kept, t)
			}
		}
		b.times = kept

		if len(b.times) >= limit {
			mu.Unlock()
			response.Error(c, 429, 10007, "too many requests")
			c.Abort()
			return
		}
		b.times = append(b.times, now)
		mu.Unlock()

		c.Next()
	}
}
