package llm

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/core/errors"
	"github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/platform/config"
	"github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/platform/observability"
)

// Log key constants.
const (
	logKeyProvider = "provider"
	logKeyModel    = "model"
	logKeyBatch    = "batch_size"
)

// Registry manages LLM providers with fallback support. Configuration is
// read-only after construction, so a single registry is safe to share across
// worker goroutines.
type Registry struct {
	mu              sync.RWMutex
	providers       []Provider
	circuitBreakers map[string]*CircuitBreaker
	circuitCfg      CircuitBreakerConfig
	logger          *zerolog.Logger
}

// NewRegistry creates an empty provider registry.
func NewRegistry(cfg *config.Config, logger *zerolog.Logger) *Registry {
	return &Registry{
		circuitBreakers: make(map[string]*CircuitBreaker),
		circuitCfg: CircuitBreakerConfig{
			Threshold:  cfg.CircuitThreshold,
			ResetAfter: cfg.CircuitTimeout,
		},
		logger: logger,
	}
}

// Register adds a provider and sorts the chain by priority (highest first).
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.providers = append(r.providers, p)
	r.circuitBreakers[p.Name()] = NewCircuitBreaker(r.circuitCfg, r.logger)

	sort.SliceStable(r.providers, func(i, j int) bool {
		return r.providers[i].Priority() > r.providers[j].Priority()
	})

	r.logger.Info().
		Str(logKeyProvider, p.Name()).
		Int("priority", p.Priority()).
		Msg("registered LLM provider")
}

// ProviderCount returns the number of registered providers.
func (r *Registry) ProviderCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.providers)
}

// ClassifyBatch walks the provider chain until one returns a usable outcome.
func (r *Registry) ClassifyBatch(ctx context.Context, texts []string) (*Outcome, error) {
	r.mu.RLock()
	providers := make([]Provider, len(r.providers))
	copy(providers, r.providers)
	r.mu.RUnlock()

	if len(providers) == 0 {
		return nil, apperrors.ErrNoProvidersAvailable
	}

	var lastErr error

	for _, p := range providers {
		if !p.IsAvailable() {
			continue
		}

		breaker := r.breakerFor(p.Name())
		if err := breaker.CheckCircuit(); err != nil {
			r.logger.Debug().Str(logKeyProvider, p.Name()).Msg("skipping provider - circuit breaker open")
			lastErr = err

			continue
		}

		start := time.Now()

		outcome, err := p.ClassifyBatch(ctx, texts)
		if err != nil {
			breaker.RecordFailure(p.Name())
			observability.LLMRequestFailures.WithLabelValues(p.Name()).Inc()
			r.logger.Warn().Err(err).Str(logKeyProvider, p.Name()).Int(logKeyBatch, len(texts)).Msg("LLM provider failed")
			lastErr = err

			continue
		}

		breaker.RecordSuccess()
		observability.LLMRequestDuration.WithLabelValues(p.Name(), outcome.Model).Observe(time.Since(start).Seconds())

		return outcome, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrAllProvidersFailed, lastErr)
	}

	return nil, apperrors.ErrNoProvidersAvailable
}

func (r *Registry) breakerFor(name string) *CircuitBreaker {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.circuitBreakers[name]
}

var _ Client = (*Registry)(nil)
