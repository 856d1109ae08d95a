package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/myblog/blog/pkg/metrics"
	"golang.org/x/time/rate"
)

// KeyFunc selects the bucket a request is counted against.
type KeyFunc func(c *gin.Context) string

// ClientIPKey buckets requests by client address.
func ClientIPKey(c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}

// RouteKey buckets requests by client address and matched route, so a burst
// of searches does not use up the budget for reading posts.
func RouteKey(c *gin.Context) string {
	return ClientIPKey(c) + ":" + c.FullPath()
}

// RateLimitMiddleware enforces an in-process token bucket per key.
// rps = allowed events per second, burst = maximum tokens in bucket.
// A nil key uses ClientIPKey.
func RateLimitMiddleware(rps float64, burst int, key KeyFunc) gin.HandlerFunc {
	if key == nil {
		key = ClientIPKey
	}
	var limiters sync.Map // map[string]*rate.Limiter
	return func(c *gin.Context) {
		v, _ := limiters.LoadOrStore(key(c), rate.NewLimiter(rate.Limit(rps), burst))
		if !v.(*rate.Limiter).Allow() {
			c.Header("Retry-After", "1")
			metrics.RateLimitRejected.WithLabelValues("memory").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("memory").Inc()
		c.Next()
	}
}
