package llm

import (
	"context"
	"errors"
)

// ResponseFormat is an advisory hint asking the provider to shape its output.
// Providers may still return non-conforming text.
type ResponseFormat string

const (
	FormatText ResponseFormat = "text"
	FormatJSON ResponseFormat = "json"
)

// Request is a single-turn generation request.
type Request struct {
	Prompt         string
	ResponseFormat ResponseFormat
}

// Generator abstracts text-generation providers.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// ErrEmptyResponse is returned when a provider answers without any text.
var ErrEmptyResponse = errors.New("empty response from provider")
