// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	apperrors "github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/core/errors"
)

const maxWorkerCap = 16

type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"local"`

	// LLM endpoint. The default targets a local Ollama instance through its
	// OpenAI-compatible API.
	LLMBaseURL     string        `env:"LLM_BASE_URL" envDefault:"http://localhost:11434/v1"`
	LLMAPIKey      string        `env:"LLM_API_KEY" envDefault:"ollama"`
	LLMModel       string        `env:"LLM_MODEL" envDefault:"mistral"`
	LLMTemperature float32       `env:"LLM_TEMPERATURE" envDefault:"0.1"`
	LLMMaxTokens   int           `env:"LLM_MAX_TOKENS" envDefault:"2048"`
	LLMTimeout     time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`
	LLMMaxRetries  int           `env:"LLM_MAX_RETRIES" envDefault:"2"`
	LLMRetryDelay  time.Duration `env:"LLM_RETRY_DELAY" envDefault:"500ms"`
	RateLimitRPS   int           `env:"RATE_LIMIT_RPS" envDefault:"2"`

	// Optional secondary provider, registered only when a key is present.
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	AnthropicModel  string `env:"ANTHROPIC_MODEL" envDefault:"claude-haiku-4.5"`

	// Circuit breaker per provider.
	CircuitThreshold int           `env:"LLM_CIRCUIT_THRESHOLD" envDefault:"5"`
	CircuitTimeout   time.Duration `env:"LLM_CIRCUIT_TIMEOUT" envDefault:"1m"`

	// Batch orchestration.
	BatchSize   int `env:"BATCH_SIZE" envDefault:"10"`
	WorkerCount int `env:"WORKER_COUNT" envDefault:"0"` // 0 = derive from parallelism

	// Cleaning options.
	RemoveURLs     bool     `env:"CLEAN_REMOVE_URLS" envDefault:"true"`
	RemoveMentions bool     `env:"CLEAN_REMOVE_MENTIONS" envDefault:"true"`
	RemoveHashtags bool     `env:"CLEAN_REMOVE_HASHTAGS" envDefault:"false"`
	ConvertEmojis  bool     `env:"CLEAN_CONVERT_EMOJIS" envDefault:"true"`
	MentionAllow   []string `env:"CLEAN_MENTION_ALLOWLIST" envSeparator:","`

	// Rule classifier.
	KeywordConfigPath  string  `env:"KEYWORD_CONFIG_PATH"`
	FallbackConfidence float64 `env:"FALLBACK_CONFIDENCE" envDefault:"0.5"`

	// Ingest / output.
	TextColumn string `env:"TEXT_COLUMN" envDefault:"text"`
	IDColumn   string `env:"ID_COLUMN" envDefault:"id"`

	HealthPort int `env:"HEALTH_PORT" envDefault:"8080"`
}

// Load reads configuration from the environment, consulting an optional .env
// file, and validates it.
func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional, error is expected when not present

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configuration values that would otherwise surface as
// failures in the middle of a job. Called once at startup.
func (c *Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive, got %d", apperrors.ErrInvalidConfig, c.BatchSize)
	}

	if c.WorkerCount < 0 {
		return fmt.Errorf("%w: worker count must not be negative, got %d", apperrors.ErrInvalidConfig, c.WorkerCount)
	}

	if c.WorkerCount > maxWorkerCap {
		return fmt.Errorf("%w: worker count %d exceeds cap %d", apperrors.ErrInvalidConfig, c.WorkerCount, maxWorkerCap)
	}

	if c.LLMMaxRetries < 0 {
		return fmt.Errorf("%w: max retries must not be negative, got %d", apperrors.ErrInvalidConfig, c.LLMMaxRetries)
	}

	if c.FallbackConfidence < 0 || c.FallbackConfidence > 1 {
		return fmt.Errorf("%w: fallback confidence must be in [0,1], got %f", apperrors.ErrInvalidConfig, c.FallbackConfidence)
	}

	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("%w: rate limit RPS must be positive, got %d", apperrors.ErrInvalidConfig, c.RateLimitRPS)
	}

	return nil
}
