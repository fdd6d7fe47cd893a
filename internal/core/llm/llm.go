// Package llm provides chat-completion-backed batch classification with
// multi-provider fallback. Providers are registered in priority order and
// guarded by per-provider circuit breakers; the registry walks them until
// one succeeds.
package llm

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/platform/config"
)

// BatchResult is one element of the "results" array the model is asked to
// return. Index refers to the position of the text in the submitted batch.
type BatchResult struct {
	Index      int     `json:"index"`
	Sentiment  string  `json:"sentiment"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// Outcome carries a provider's parsed batch response plus its identity, so
// callers can tag results with the model that produced them.
type Outcome struct {
	Results  []BatchResult
	Provider string
	Model    string
}

// Client classifies a batch of texts through an external LLM endpoint.
type Client interface {
	ClassifyBatch(ctx context.Context, texts []string) (*Outcome, error)
}

// Provider is a single LLM backend.
type Provider interface {
	Name() string
	// Priority orders providers; higher runs first.
	Priority() int
	// IsAvailable reports whether the provider is configured.
	IsAvailable() bool
	ClassifyBatch(ctx context.Context, texts []string) (*Outcome, error)
}

// Provider priority constants.
const (
	PriorityPrimary  = 100
	PriorityFallback = 50
	PriorityMock     = 0
)

const apiKeyMock = "mock"

// New builds the provider registry from configuration. The OpenAI-compatible
// endpoint (Ollama in the default deployment) is primary; Anthropic is
// registered as fallback when a key is present. With no real provider
// configured the mock is used.
func New(cfg *config.Config, logger *zerolog.Logger) Client {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	registry := NewRegistry(cfg, logger)

	if cfg.LLMAPIKey != "" && cfg.LLMAPIKey != apiKeyMock {
		registry.Register(NewOpenAIProvider(cfg, logger))
	}

	if cfg.AnthropicAPIKey != "" {
		registry.Register(NewAnthropicProvider(cfg, logger))
	}

	if registry.ProviderCount() == 0 {
		registry.Register(NewMockProvider())
	}

	return registry
}
