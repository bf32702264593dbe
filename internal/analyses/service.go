package analyses

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"finance-agent/internal/llm"
	"finance-agent/internal/shared/metrics"
	"finance-agent/internal/shared/telemetry"
)

// Options tunes the analysis pipeline.
type Options struct {
	// DefaultContext is used when a request carries no context.
	DefaultContext string
	// Timeout bounds each provider call. Zero means no extra bound beyond ctx.
	Timeout time.Duration
	// StrictSchema rejects model output that does not carry all five fields.
	StrictSchema bool
}

// Service runs the prompt -> generate -> parse pipeline.
type Service struct {
	Generator llm.Generator
	Options   Options
}

// NewService constructs a Service.
func NewService(gen llm.Generator, opts Options) *Service {
	return &Service{Generator: gen, Options: opts}
}

// ResolveContext returns the steering context for req.
func (s *Service) ResolveContext(req Request) string {
	if req.Context != nil {
		return *req.Context
	}
	return s.Options.DefaultContext
}

// Prompt builds the prompt that Analyze would send for req.
func (s *Service) Prompt(req Request) (string, error) {
	if req.UnstructuredText == nil {
		return "", newError(KindUnknown, ErrMissingText)
	}
	return BuildPrompt(s.ResolveContext(req), *req.UnstructuredText), nil
}

// Analyze sends one prompt to the provider and returns the model's JSON value
// verbatim. Every failure is returned as an *Error.
func (s *Service) Analyze(ctx context.Context, req Request) (result json.RawMessage, err error) {
	startedAt := time.Now()
	metrics.IncAnalysisStarted()

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = newError(KindUnknown, fmt.Errorf("%v", r))
		}
		s.finish(ctx, startedAt, err)
	}()

	if s.Generator == nil {
		return nil, newError(KindConfig, ErrNoGenerator)
	}

	prompt, err := s.Prompt(req)
	if err != nil {
		return nil, err
	}
	telemetry.Debug("analysis.prompt_built", map[string]any{
		"request_id":   requestIDFromContext(ctx),
		"prompt_chars": len(prompt),
	})

	callCtx := ctx
	if s.Options.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.Options.Timeout)
		defer cancel()
	}

	text, err := s.Generator.Generate(callCtx, llm.Request{
		Prompt:         prompt,
		ResponseFormat: llm.FormatJSON,
	})
	if err != nil {
		return nil, newError(KindProvider, err)
	}

	parsed, err := parseOutput(text)
	if err != nil {
		telemetry.Warn("analysis.output_invalid", map[string]any{
			"request_id": requestIDFromContext(ctx),
			"preview":    preview(text, 200),
		})
		return nil, newError(KindParse, err)
	}

	if s.Options.StrictSchema {
		if err := checkSchema(parsed); err != nil {
			return nil, newError(KindParse, err)
		}
	}

	return parsed, nil
}

func (s *Service) finish(ctx context.Context, startedAt time.Time, err error) {
	durationMs := float64(time.Since(startedAt).Microseconds()) / 1000.0
	metrics.ObserveAnalysisDurationMs(durationMs)

	if err == nil {
		metrics.IncAnalysisCompleted()
		telemetry.Info("analysis.completed", map[string]any{
			"request_id":  requestIDFromContext(ctx),
			"duration_ms": durationMs,
		})
		return
	}

	kind := KindOf(err)
	metrics.IncAnalysisFailed(string(kind))
	telemetry.Error("analysis.failed", map[string]any{
		"request_id":  requestIDFromContext(ctx),
		"error_kind":  string(kind),
		"error":       sanitizeError(err),
		"duration_ms": durationMs,
	})
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}

func preview(text string, n int) string {
	text = strings.TrimSpace(text)
	if len(text) <= n {
		return text
	}
	return text[:n] + "..."
}
