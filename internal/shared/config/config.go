package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"

	// DefaultAnalysisContext steers the model when a request carries no context.
	DefaultAnalysisContext = "rural loans and government schemes in India"

	defaultLLMTimeout     = 30 * time.Second
	defaultMaxUploadBytes = 10 << 20
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	LogLevel        string

	LLMProvider string
	LLMModel    string
	LLMBaseURL  string
	LLMTimeout  time.Duration
	LLMAPIKey   string

	DefaultContext string
	StrictSchema   bool
	MaxUploadBytes int64
}

// Load reads configuration from environment variables with sensible defaults.
// A missing provider credential is returned as an error; callers treat it as fatal.
func Load() (Config, error) {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	provider := normalizeProvider(getEnv("LLM_PROVIDER", ProviderGemini))
	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		Env:             normalizeEnv(getEnv("ENV", "dev")),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LLMProvider:     provider,
		LLMModel:        getEnv("LLM_MODEL", defaultModel(provider)),
		LLMBaseURL:      getEnv("LLM_BASE_URL", ""),
		LLMTimeout:      getDuration("LLM_TIMEOUT", defaultLLMTimeout),
		LLMAPIKey:       strings.TrimSpace(os.Getenv(apiKeyEnv(provider))),
		DefaultContext:  getEnv("ANALYSIS_DEFAULT_CONTEXT", DefaultAnalysisContext),
		StrictSchema:    getBool("ANALYSIS_STRICT_SCHEMA", false),
		MaxUploadBytes:  getInt64("MAX_UPLOAD_BYTES", defaultMaxUploadBytes),
	}

	if cfg.LLMAPIKey == "" {
		return cfg, fmt.Errorf("%s environment variable not set", apiKeyEnv(provider))
	}
	return cfg, nil
}

// APIKeyEnv names the environment variable holding the credential for provider.
func APIKeyEnv(provider string) string {
	return apiKeyEnv(normalizeProvider(provider))
}

func apiKeyEnv(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderClaude:
		return "ANTHROPIC_API_KEY"
	default:
		return "GEMINI_API_KEY"
	}
}

func defaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderClaude:
		return "claude-haiku-4-5"
	default:
		return "gemini-1.5-flash-001"
	}
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	// Bare integers are seconds.
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return def
}

func getBool(key string, def bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return parsed
}

func getInt64(key string, def int64) int64 {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return ProviderOpenAI
	case "claude", "anthropic":
		return ProviderClaude
	default:
		return ProviderGemini
	}
}
