package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	apperrors "github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/core/errors"
	"github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/platform/config"
)

const (
	providerOpenAI   = "openai"
	rateLimiterBurst = 5
)

// openaiProvider talks to any OpenAI-compatible chat-completion endpoint.
// The default deployment points it at a local Ollama instance serving the
// Mistral model through Ollama's /v1 compatibility API.
type openaiProvider struct {
	cfg         *config.Config
	client      *openai.Client
	logger      *zerolog.Logger
	rateLimiter *rate.Limiter
}

// NewOpenAIProvider creates the primary LLM provider.
func NewOpenAIProvider(cfg *config.Config, logger *zerolog.Logger) Provider {
	clientCfg := openai.DefaultConfig(cfg.LLMAPIKey)
	if cfg.LLMBaseURL != "" {
		clientCfg.BaseURL = cfg.LLMBaseURL
	}

	return &openaiProvider{
		cfg:         cfg,
		client:      openai.NewClientWithConfig(clientCfg),
		logger:      logger,
		rateLimiter: rate.NewLimiter(rate.Limit(float64(cfg.RateLimitRPS)), rateLimiterBurst),
	}
}

func (p *openaiProvider) Name() string { return providerOpenAI }

func (p *openaiProvider) Priority() int { return PriorityPrimary }

func (p *openaiProvider) IsAvailable() bool { return p.cfg.LLMAPIKey != "" }

func (p *openaiProvider) ClassifyBatch(ctx context.Context, texts []string) (*Outcome, error) {
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	payload, err := buildBatchPayload(texts)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.LLMTimeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.cfg.LLMModel,
		Temperature: p.cfg.LLMTemperature,
		MaxTokens:   p.cfg.LLMMaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: promptText(len(texts)),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: payload,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, apperrors.ErrEmptyResponse
	}

	content := resp.Choices[0].Message.Content
	p.logger.Debug().Str(logKeyModel, p.cfg.LLMModel).Int(logKeyBatch, len(texts)).Msg("LLM response received")

	results, err := parseBatchResponse(content)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Results:  results,
		Provider: providerOpenAI,
		Model:    p.cfg.LLMModel,
	}, nil
}

var _ Provider = (*openaiProvider)(nil)
