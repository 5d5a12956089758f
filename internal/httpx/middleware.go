package httpx

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	HeaderRequestID = "X-Request-ID"
	ridKey          = "rid"
)

type ridCtxKey struct{}

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(ridKey, rid)
		c.Request = c.Request.WithContext(WithRID(c.Request.Context(), rid))
		c.Writer.Header().Set(HeaderRequestID, rid)
		c.Next()
	}
}

// RID returns the request id set by RequestID, or "".
func RID(c *gin.Context) string {
	return c.GetString(ridKey)
}

// WithRID attaches a request id to ctx for code below the handler layer.
func WithRID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, ridCtxKey{}, rid)
}

// RIDFromContext returns the request id carried by ctx, or "".
func RIDFromContext(ctx context.Context) string {
	rid, _ := ctx.Value(ridCtxKey{}).(string)
	return rid
}

func Logger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		entry := log.WithFields(logrus.Fields{
			"rid":    RID(c),
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
			"dur":    time.Since(start).String(),
		})
		switch {
		case c.Writer.Status() >= 500:
			entry.Error("[http]")
		case c.Writer.Status() >= 400:
			entry.Warn("[http]")
		default:
			entry.Info("[http]")
		}
	}
}

// CORS allows the storefront and dashboard frontends to call the API with credentials.
func CORS(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", HeaderRequestID},
		ExposeHeaders:    []string{HeaderRequestID, "X-Search-Degraded", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// HTTPError represents a standard error in JSON.
// swagger:model
type HTTPError struct {
	// example: not found
	Error string `json:"error"`
}

// Fail aborts the request with a JSON error body.
func Fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, HTTPError{Error: msg})
}
