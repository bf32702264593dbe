package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"finance-agent/internal/shared/server/respond"
	"finance-agent/internal/shared/telemetry"
)

// Recovery recovers from panics and returns the uniform error body.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				telemetry.Error("panic", map[string]any{
					"request_id": RequestIDFromContext(c),
					"error":      fmt.Sprint(rec),
					"stack":      string(debug.Stack()),
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
				})
				c.Set(ErrorKindKey, "unknown")
				respond.Detail(c, http.StatusInternalServerError, "unknown", fmt.Sprintf("An internal error occurred: %v", rec))
			}
		}()
		c.Next()
	}
}
