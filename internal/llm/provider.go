// Package llm calls the external annotation service: claim extraction and
// persuasion-technique detection are delegated to an LLM behind a small
// provider interface. This package owns prompt assembly and response
// parsing only; the reasoning itself is the external service's contract.
package llm

import (
	"context"
	"fmt"

	"github.com/musekg/musegraph/internal/model"
)

// Provider is one LLM backend
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends one system+user exchange and returns the raw
	// completion text
	Complete(ctx context.Context, system, user string) (string, error)
}

// NewProvider creates the configured provider. OpenRouter is reached
// through the OpenAI-compatible API with a custom base URL.
func NewProvider(cfg model.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai", "openrouter":
		return NewOpenAIProvider(cfg)
	case "anthropic", "claude":
		return NewAnthropicProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q (supported: openai, openrouter, anthropic)", cfg.Provider)
	}
}
