package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/musekg/musegraph/internal/model"
)

// AnthropicProvider implements Provider over the Anthropic Messages API
type AnthropicProvider struct {
	client *anthropic.Client
	cfg    model.LLMConfig
}

// NewAnthropicProvider creates a provider from the LLM configuration
func NewAnthropicProvider(cfg model.LLMConfig) (*AnthropicProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("LLM API key is required")
	}

	var opts []anthropic.ClientOption
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}

	return &AnthropicProvider{
		client: anthropic.NewClient(cfg.APIKey, opts...),
		cfg:    cfg,
	}, nil
}

// Name returns the provider name
func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

// Complete sends one exchange and returns the completion text
func (p *AnthropicProvider) Complete(ctx context.Context, system, user string) (string, error) {
	modelName := p.cfg.Model
	if modelName == "" {
		modelName = string(anthropic.ModelClaude3Dot5HaikuLatest)
	}

	timeout := p.cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	temperature := float32(0.2)
	resp, err := p.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(modelName),
		System:    system,
		MaxTokens: 2000,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(user),
		},
		Temperature: &temperature,
	})
	if err != nil {
		return "", fmt.Errorf("create messages: %w", err)
	}

	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			return strings.TrimSpace(*block.Text), nil
		}
	}
	return "", fmt.Errorf("empty completion response")
}
