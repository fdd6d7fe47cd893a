package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	apperrors "github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/core/errors"
	"github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/platform/config"
)

const (
	providerAnthropic = "anthropic"

	anthropicMaxTokensDefault = 4096
	contentTypeText           = "text"
)

// anthropicProvider is the optional secondary backend, registered only when
// an API key is configured.
type anthropicProvider struct {
	cfg         *config.Config
	client      anthropic.Client
	logger      *zerolog.Logger
	rateLimiter *rate.Limiter
}

// NewAnthropicProvider creates the Anthropic fallback provider.
func NewAnthropicProvider(cfg *config.Config, logger *zerolog.Logger) Provider {
	return &anthropicProvider{
		cfg:         cfg,
		client:      anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey)),
		logger:      logger,
		rateLimiter: rate.NewLimiter(rate.Limit(float64(cfg.RateLimitRPS)), rateLimiterBurst),
	}
}

func (p *anthropicProvider) Name() string { return providerAnthropic }

func (p *anthropicProvider) Priority() int { return PriorityFallback }

func (p *anthropicProvider) IsAvailable() bool { return p.cfg.AnthropicAPIKey != "" }

func (p *anthropicProvider) ClassifyBatch(ctx context.Context, texts []string) (*Outcome, error) {
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	payload, err := buildBatchPayload(texts)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.LLMTimeout)
	defer cancel()

	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.cfg.AnthropicModel),
		MaxTokens: anthropicMaxTokensDefault,
		System: []anthropic.TextBlockParam{
			{Text: promptText(len(texts))},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(payload)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic chat completion: %w", err)
	}

	if len(resp.Content) == 0 {
		return nil, apperrors.ErrEmptyResponse
	}

	results, err := parseBatchResponse(extractTextFromResponse(resp))
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Results:  results,
		Provider: providerAnthropic,
		Model:    p.cfg.AnthropicModel,
	}, nil
}

// extractTextFromResponse concatenates the text blocks of an Anthropic response.
func extractTextFromResponse(resp *anthropic.Message) string {
	var result strings.Builder

	for _, block := range resp.Content {
		if block.Type == contentTypeText {
			result.WriteString(block.Text)
		}
	}

	return result.String()
}

var _ Provider = (*anthropicProvider)(nil)
