package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"finance-agent/internal/shared/telemetry"
)

// ErrorKindKey is set by handlers when a request failed, so the access log can carry it.
const ErrorKindKey = "errorKind"

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if kind := c.GetString(ErrorKindKey); kind != "" {
			fields["error_kind"] = kind
		}
		telemetry.Info("request.complete", fields)
	}
}
