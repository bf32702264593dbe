package respond

import (
	"github.com/gin-gonic/gin"

	"finance-agent/internal/shared/telemetry"
)

// DetailResponse is the error body returned to clients.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// Detail logs the failure and aborts with a {"detail": ...} body.
// kind is only logged; clients never see it.
func Detail(c *gin.Context, status int, kind, detail string) {
	telemetry.Error("http.error", map[string]any{
		"status":     status,
		"error_kind": kind,
		"detail":     detail,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	})

	c.AbortWithStatusJSON(status, DetailResponse{Detail: detail})
}
