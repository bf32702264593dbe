package server

import (
	"github.com/gin-gonic/gin"

	"finance-agent/internal/analyses"
	"finance-agent/internal/services/health"
	"finance-agent/internal/shared/metrics"
	"finance-agent/internal/shared/server/middleware"
	"finance-agent/internal/shared/server/respond"
)

// RouterDeps are the handlers mounted on the engine.
type RouterDeps struct {
	CORSAllowOrigin []string
	Health          *health.Service
	Analyses        *analyses.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.CORSAllowOrigin),
	)

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}
	r.GET("/", func(c *gin.Context) {
		respond.OK(c, healthSvc.Status())
	})
	r.GET("/metrics", metrics.Handler())

	if deps.Analyses != nil {
		deps.Analyses.RegisterRoutes(r)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
