package middleware

import (
	"fmt"
	"net/http"
	"time"

	"blog-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitMiddleware is a fixed-window limiter keyed by path and caller
// (user id when authenticated, client IP otherwise). If Redis is unreachable
// the request is let through.
func RateLimitMiddleware(redisClient *redis.Client, scope string, limit int, window time.Duration, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil || limit <= 0 {
			c.Next()
			return
		}

		caller := c.ClientIP()
		if id := UserID(c); id != 0 {
			caller = fmt.Sprintf("user:%d", id)
		}

		key := fmt.Sprintf("rate_limit:%s:%s:%s", scope, c.FullPath(), caller)

		ctx := c.Request.Context()
		count, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			log.Warn("Rate limit check failed, allowing request: %v", err)
			c.Next()
			return
		}

		if count == 1 {
			redisClient.Expire(ctx, key, window)
		}

		if count > int64(limit) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Request was throttled"})
			c.Abort()
			return
		}

		c.Next()
	}
}
