package mw

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// visitorTTL is how long an idle client keeps its limiter.
const visitorTTL = 10 * time.Minute

// IPRateLimiter stores a rate limiter for each client IP. Limiters of
// clients idle for longer than visitorTTL are evicted.
type IPRateLimiter struct {
	visitors *cache.Cache
	mu       sync.Mutex
	r        rate.Limit
	b        int
}

// NewIPRateLimiter creates a new IPRateLimiter.
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		visitors: cache.New(visitorTTL, 2*visitorTTL),
		r:        r,
		b:        b,
	}
}

// GetLimiter returns the rate limiter for an IP address, creating it on
// first use. Every call pushes the eviction deadline back.
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	var limiter *rate.Limiter
	if v, found := i.visitors.Get(ip); found {
		limiter = v.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(i.r, i.b)
	}
	i.visitors.SetDefault(ip, limiter)
	return limiter
}

// RateLimiter is a middleware for IP-based rate limiting.
func RateLimiter(r rate.Limit, b int) gin.HandlerFunc {
	limiter := NewIPRateLimiter(r, b)
	return func(c *gin.Context) {
		if !limiter.GetLimiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests, please slow down",
				"kind":  "RateLimited",
			})
			return
		}
		c.Next()
	}
}
