package httpx

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RateLimiter is a fixed-window limiter keyed per client IP, method and
// route. Redis errors let the request through.
func RateLimiter(rdb redis.Cmdable, limit int, window time.Duration, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}
		key := "rl:" + c.ClientIP() + ":" + c.Request.Method + ":" + c.FullPath()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 500*time.Millisecond)
		defer cancel()

		var incr *redis.IntCmd
		var ttlCmd *redis.DurationCmd
		_, err := rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
			incr = p.Incr(ctx, key)
			ttlCmd = p.TTL(ctx, key)
			return nil
		})
		if err != nil {
			log.WithError(err).WithField("rid", RID(c)).Warn("[ratelimit] redis unavailable, allowing request")
			c.Next()
			return
		}
		count := incr.Val()
		// A key without expiry never resets; re-arm it.
		ttl := ttlCmd.Val()
		if ttl < 0 {
			if err := rdb.Expire(ctx, key, window).Err(); err != nil {
				log.WithError(err).WithField("rid", RID(c)).Warn("[ratelimit] could not arm window expiry")
			}
			ttl = window
		}

		remaining := limit - int(count)
		if remaining < 0 {
			remaining = 0
		}
		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(limit))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		h.Set("X-RateLimit-Reset", strconv.Itoa(int(ttl.Seconds())))

		if int(count) > limit {
			Fail(c, http.StatusTooManyRequests, "too many requests")
			return
		}
		c.Next()
	}
}
