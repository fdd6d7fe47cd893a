package llm

import (
	"context"
)

const (
	providerMock = "mock"
	mockModel    = "mock-model"

	mockConfidence = 0.9
)

// mockProvider returns canned classifications. It backs local development
// runs without a reachable endpoint and the classifier tests.
type mockProvider struct{}

// NewMockProvider creates a mock LLM provider.
func NewMockProvider() Provider {
	return &mockProvider{}
}

func (p *mockProvider) Name() string { return providerMock }

func (p *mockProvider) Priority() int { return PriorityMock }

func (p *mockProvider) IsAvailable() bool { return true }

// ClassifyBatch implements Provider. Every text is classified neutral/other.
func (p *mockProvider) ClassifyBatch(_ context.Context, texts []string) (*Outcome, error) {
	results := make([]BatchResult, len(texts))
	for i := range texts {
		results[i] = BatchResult{
			Index:      i,
			Sentiment:  "neutral",
			Category:   "other",
			Confidence: mockConfidence,
		}
	}

	return &Outcome{
		Results:  results,
		Provider: providerMock,
		Model:    mockModel,
	}, nil
}

var _ Provider = (*mockProvider)(nil)
