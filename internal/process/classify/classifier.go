package classify

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/core/domain"
	"github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/core/llm"
	"github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/platform/observability"
)

const (
	defaultRetryDelay = 500 * time.Millisecond
	delayMultiplier   = 2

	// Model tag attached to fallback results.
	fallbackModel = "keyword-rules"

	logKeyAttempt = "attempt"
	logKeyBatch   = "batch_size"
	logKeyIndex   = "index"
)

// Classifier classifies batches of cleaned records through the LLM client,
// degrading to the rule-based path. It holds read-only configuration and is
// safe to share across worker goroutines.
type Classifier struct {
	client     llm.Client
	rules      *RuleClassifier
	maxRetries int
	retryDelay time.Duration
	logger     *zerolog.Logger
}

// NewClassifier builds a batch classifier. maxRetries is the number of
// additional attempts after the first failed LLM call.
func NewClassifier(client llm.Client, rules *RuleClassifier, maxRetries int, retryDelay time.Duration, logger *zerolog.Logger) *Classifier {
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}

	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &Classifier{
		client:     client,
		rules:      rules,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		logger:     logger,
	}
}

// ClassifyChunk returns exactly one result per record, in record order.
// A failed LLM call (after retries) degrades the whole chunk to the
// rule-based path; it never returns an error for transient failures.
func (c *Classifier) ClassifyChunk(ctx context.Context, records []domain.Record) ([]domain.ClassificationResult, error) {
	if len(records) == 0 {
		return nil, nil
	}

	texts := make([]string, len(records))
	for i, rec := range records {
		texts[i] = rec.CleanText
	}

	outcome, err := c.callWithRetry(ctx, texts)
	if err != nil {
		c.logger.Warn().Err(err).Int(logKeyBatch, len(records)).Msg("LLM batch failed, degrading to rule-based classification")

		return c.classifyAllFallback(records), nil
	}

	return c.alignResults(outcome, records), nil
}

// callWithRetry retries the batch call with doubling backoff. Retries never
// duplicate work: a batch either fully succeeds or is retried whole.
func (c *Classifier) callWithRetry(ctx context.Context, texts []string) (*llm.Outcome, error) {
	var lastErr error

	delay := c.retryDelay

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Debug().Int(logKeyAttempt, attempt).Msg("retrying LLM batch call")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
				delay *= delayMultiplier
			}
		}

		outcome, err := c.client.ClassifyBatch(ctx, texts)
		if err == nil {
			return outcome, nil
		}

		lastErr = err
	}

	return nil, lastErr
}

// alignResults places LLM results by index, filling gaps and invalid entries
// with the rule-based path for those records only.
func (c *Classifier) alignResults(outcome *llm.Outcome, records []domain.Record) []domain.ClassificationResult {
	now := time.Now().UTC()
	final := make([]domain.ClassificationResult, len(records))
	populated := make([]bool, len(records))

	for _, res := range outcome.Results {
		if res.Index < 0 || res.Index >= len(records) {
			c.logger.Warn().Int(logKeyIndex, res.Index).Msg("LLM returned out-of-range index, ignoring")
			continue
		}

		if populated[res.Index] {
			c.logger.Warn().Int(logKeyIndex, res.Index).Msg("LLM returned duplicate index, ignoring")
			continue
		}

		sentiment, okSentiment := parseSentiment(res.Sentiment)
		category, okCategory := parseCategory(res.Category)

		if !okSentiment || !okCategory {
			continue
		}

		final[res.Index] = domain.ClassificationResult{
			Index:      res.Index,
			Sentiment:  sentiment,
			Category:   category,
			Confidence: domain.ClampConfidence(res.Confidence),
			Method:     domain.MethodLLM,
			Model:      outcome.Model,
			Timestamp:  now,
		}
		populated[res.Index] = true
	}

	for i := range records {
		if populated[i] {
			observability.RecordsClassified.WithLabelValues(string(domain.MethodLLM)).Inc()
			continue
		}

		c.logger.Debug().Int(logKeyIndex, i).Msg("LLM result missing or invalid, using rule-based fallback")
		final[i] = c.fallbackResult(records[i], i, now)
	}

	return final
}

func (c *Classifier) classifyAllFallback(records []domain.Record) []domain.ClassificationResult {
	now := time.Now().UTC()

	results := make([]domain.ClassificationResult, len(records))
	for i, rec := range records {
		results[i] = c.fallbackResult(rec, i, now)
	}

	return results
}

func (c *Classifier) fallbackResult(rec domain.Record, index int, now time.Time) domain.ClassificationResult {
	sentiment, category, confidence := c.rules.Classify(rec.CleanText)

	observability.RecordsClassified.WithLabelValues(string(domain.MethodFallback)).Inc()

	return domain.ClassificationResult{
		Index:      index,
		Sentiment:  sentiment,
		Category:   category,
		Confidence: domain.ClampConfidence(confidence),
		Method:     domain.MethodFallback,
		Model:      fallbackModel,
		Timestamp:  now,
	}
}

// parseSentiment maps an LLM sentiment string onto the enumeration,
// tolerating the French spellings the model occasionally produces.
func parseSentiment(s string) (domain.Sentiment, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive", "positif":
		return domain.SentimentPositive, true
	case "neutral", "neutre":
		return domain.SentimentNeutral, true
	case "negative", "négatif", "negatif":
		return domain.SentimentNegative, true
	default:
		return "", false
	}
}

func parseCategory(s string) (domain.Category, bool) {
	c := domain.Category(strings.ToLower(strings.TrimSpace(s)))
	if c.Valid() {
		return c, true
	}

	return "", false
}
