package bootstrap

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"finance-agent/internal/analyses"
	"finance-agent/internal/llm"
	anthropicllm "finance-agent/internal/llm/anthropic"
	"finance-agent/internal/llm/gemini"
	"finance-agent/internal/llm/openai"
	"finance-agent/internal/services/health"
	"finance-agent/internal/shared/config"
	"finance-agent/internal/shared/server"
	"finance-agent/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	Generator       llm.Generator
	AnalysesService *analyses.Service
	AnalysisHandler *analyses.Handler
	HealthService   *health.Service
}

// Build constructs the provider client once and wires it into the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	gen, err := BuildGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return BuildWithGenerator(cfg, gen), nil
}

// BuildWithGenerator wires the app around an already constructed generator.
func BuildWithGenerator(cfg config.Config, gen llm.Generator) *App {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	svc := analyses.NewService(gen, analyses.Options{
		DefaultContext: cfg.DefaultContext,
		Timeout:        cfg.LLMTimeout,
		StrictSchema:   cfg.StrictSchema,
	})
	handler := analyses.NewHandler(svc, cfg.MaxUploadBytes)
	healthSvc := health.NewService()

	app := &App{
		Config:          cfg,
		Generator:       gen,
		AnalysesService: svc,
		AnalysisHandler: handler,
		HealthService:   healthSvc,
	}
	app.Router = server.NewRouter(server.RouterDeps{
		CORSAllowOrigin: cfg.CORSAllowOrigin,
		Health:          healthSvc,
		Analyses:        handler,
	})

	telemetry.Info("app.built", map[string]any{
		"env":           cfg.Env,
		"llm_provider":  cfg.LLMProvider,
		"llm_model":     cfg.LLMModel,
		"llm_timeout":   cfg.LLMTimeout.String(),
		"strict_schema": cfg.StrictSchema,
	})
	return app
}

// BuildGenerator selects the generation provider named by cfg.LLMProvider.
func BuildGenerator(ctx context.Context, cfg config.Config) (llm.Generator, error) {
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		client, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:  cfg.LLMAPIKey,
			Model:   cfg.LLMModel,
			BaseURL: cfg.LLMBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		return client, nil
	case config.ProviderOpenAI:
		client, err := openai.NewClient(openai.Config{
			APIKey:  cfg.LLMAPIKey,
			Model:   cfg.LLMModel,
			BaseURL: cfg.LLMBaseURL,
			Timeout: cfg.LLMTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("openai client: %w", err)
		}
		return client, nil
	case config.ProviderClaude:
		client, err := anthropicllm.NewClient(anthropicllm.Config{
			APIKey:  cfg.LLMAPIKey,
			Model:   cfg.LLMModel,
			BaseURL: cfg.LLMBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("anthropic client: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q", cfg.LLMProvider)
	}
}
