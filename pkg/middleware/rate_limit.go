package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// rateLimitKey buckets requests per route and caller. Authenticated callers
// are counted by wallet address, anonymous ones by client IP.
func rateLimitKey(c *gin.Context) string {
	caller := c.GetString("wallet_address")
	if caller == "" {
		caller = c.ClientIP()
	}
	return fmt.Sprintf("rate_limit:%s:%s", c.Request.URL.Path, caller)
}

// RateLimitMiddleware enforces a fixed-window request budget in Redis.
func RateLimitMiddleware(redisClient *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rateLimitKey(c)

		ctx := c.Request.Context()
		count, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Rate limit check failed"})
			c.Abort()
			return
		}

		if count == 1 {
			redisClient.Expire(ctx, key, window)
		}

		if count > int64(limit) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			c.Abort()
			return
		}

		c.Next()
	}
}
