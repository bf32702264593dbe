package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"finance-agent/internal/llm"
)

const (
	defaultMaxTokens = 2048
	jsonSystemPrompt = "You are a precise assistant. Respond with a single valid JSON object only, with no markdown fences and no prose."
)

// Config configures the Claude client.
type Config struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int64
}

// Client implements llm.Generator using the Anthropic Messages API.
type Client struct {
	client    *anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	model := anthropic.Model(strings.TrimSpace(cfg.Model))
	if model == "" {
		model = anthropic.ModelClaudeHaiku4_5
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		opts = append(opts, option.WithBaseURL(base))
	}
	client := anthropic.NewClient(opts...)

	return &Client{client: &client, model: model, maxTokens: maxTokens}, nil
}

// Generate sends one user message. Claude has no JSON mode, so FormatJSON
// adds a system instruction and strips fences from the reply.
func (c *Client) Generate(ctx context.Context, req llm.Request) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.ResponseFormat == llm.FormatJSON {
		params.System = []anthropic.TextBlockParam{{Text: jsonSystemPrompt}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	var out strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	content := out.String()
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("anthropic: %w", llm.ErrEmptyResponse)
	}
	if req.ResponseFormat == llm.FormatJSON {
		content = cleanJSONResponse(content)
	}
	return content, nil
}

func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around JSON.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}

var _ llm.Generator = (*Client)(nil)
