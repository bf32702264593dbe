package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"finance-agent/internal/bootstrap"
	"finance-agent/internal/shared/config"
	"finance-agent/internal/shared/server"
	"finance-agent/internal/shared/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	telemetry.Configure(cfg.LogLevel)
	gin.DefaultWriter = telemetry.Logger().Writer()
	gin.DefaultErrorWriter = telemetry.Logger().WriterLevel(logrus.ErrorLevel)

	app, err := bootstrap.Build(context.Background(), cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}

	addr := server.Addr(cfg.Port)
	telemetry.Info("server.start", map[string]any{
		"addr":     addr,
		"provider": cfg.LLMProvider,
		"model":    cfg.LLMModel,
	})

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
