package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"finance-agent/internal/llm"
)

// Config configures the Gemini client.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Client implements llm.Generator on top of the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient builds a Gemini client. It does not contact the API.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for Gemini")
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}
	return &Client{client: client, model: cfg.Model}, nil
}

// Generate sends the prompt as a single user turn. FormatJSON maps to the
// application/json response MIME type.
func (c *Client) Generate(ctx context.Context, req llm.Request) (string, error) {
	config := &genai.GenerateContentConfig{}
	if req.ResponseFormat == llm.FormatJSON {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	// first candidate with any text wins
	var out strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate == nil || candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part != nil && part.Text != "" {
					out.WriteString(part.Text)
				}
			}
			if out.Len() > 0 {
				break
			}
		}
	}

	if out.Len() == 0 {
		return "", fmt.Errorf("gemini: %w", llm.ErrEmptyResponse)
	}
	return out.String(), nil
}

var _ llm.Generator = (*Client)(nil)
