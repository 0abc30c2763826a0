package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const (
	limiterIdle    = 3 * time.Minute
	limiterCleanup = time.Minute
)

// RateLimiter keeps one token bucket per client IP. Idle buckets expire.
type RateLimiter struct {
	mu      sync.Mutex
	clients *cache.Cache
	limit   rate.Limit
	burst   int
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients: cache.New(limiterIdle, limiterCleanup),
		limit:   rate.Limit(rps),
		burst:   burst,
	}
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, ok := rl.clients.Get(ip); ok {
		l := v.(*rate.Limiter)
		// touch to push the expiry out
		rl.clients.SetDefault(ip, l)
		return l
	}

	l := rate.NewLimiter(rl.limit, rl.burst)
	rl.clients.SetDefault(ip, l)
	return l
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests",
			})
			return
		}

		c.Next()
	}
}
