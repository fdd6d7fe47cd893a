package classify

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/core/domain"
	apperrors "github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/core/errors"
	"github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/core/llm"
)

// echoClassifier tags each result with its record's text so reassembly
// order can be verified. A random pause shuffles chunk completion order.
type echoClassifier struct {
	jitter time.Duration
}

func (e *echoClassifier) ClassifyChunk(_ context.Context, records []domain.Record) ([]domain.ClassificationResult, error) {
	if e.jitter > 0 {
		time.Sleep(time.Duration(rand.Int63n(int64(e.jitter))))
	}

	results := make([]domain.ClassificationResult, len(records))
	for i, rec := range records {
		results[i] = domain.ClassificationResult{
			Index:     i,
			Sentiment: domain.SentimentNeutral,
			Category:  domain.CategoryOther,
			Method:    domain.MethodLLM,
			Model:     rec.Text,
		}
	}

	return results, nil
}

type failingClassifier struct {
	inner     ChunkClassifier
	failText  string
	callCount int
	mu        sync.Mutex
}

func (f *failingClassifier) ClassifyChunk(ctx context.Context, records []domain.Record) ([]domain.ClassificationResult, error) {
	f.mu.Lock()
	f.callCount++
	f.mu.Unlock()

	for _, rec := range records {
		if rec.Text == f.failText {
			return nil, errors.New("simulated timeout")
		}
	}

	return f.inner.ClassifyChunk(ctx, records)
}

func numberedRecords(n int) []domain.Record {
	records := make([]domain.Record, n)
	for i := range records {
		text := fmt.Sprintf("tweet-%03d", i)
		records[i] = domain.Record{ID: text, Text: text, CleanText: text}
	}

	return records
}

func TestOrchestratorPreservesOrder(t *testing.T) {
	for _, workers := range []int{1, 2, 4, 8} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			o, err := NewOrchestrator(&echoClassifier{jitter: 2 * time.Millisecond}, 7, workers, nil)
			require.NoError(t, err)

			records := numberedRecords(100)
			results := o.Run(context.Background(), records)
			require.Len(t, results, 100)

			for i, res := range results {
				assert.Equal(t, i, res.Index)
				assert.Equal(t, records[i].Text, res.Model, "result %d out of order", i)
			}
		})
	}
}

func TestOrchestratorSubstitutesFailedChunk(t *testing.T) {
	// 50 chunks of 2 records; the chunk holding tweet-014 (chunk 7)
	// always fails. The job must still return one result per record.
	classifier := &failingClassifier{inner: &echoClassifier{}, failText: "tweet-014"}

	o, err := NewOrchestrator(classifier, 2, 4, nil)
	require.NoError(t, err)

	records := numberedRecords(100)
	results := o.Run(context.Background(), records)
	require.Len(t, results, 100)

	for i, res := range results {
		assert.Equal(t, i, res.Index)

		if i == 14 || i == 15 {
			assert.Equal(t, domain.MethodUnclassified, res.Method)
			assert.Equal(t, domain.SentimentNeutral, res.Sentiment)
			assert.Equal(t, domain.CategoryOther, res.Category)
		} else {
			assert.Equal(t, domain.MethodLLM, res.Method)
		}
	}

	assert.Equal(t, 50, classifier.callCount)
}

func TestOrchestratorSubstitutesWrongResultCount(t *testing.T) {
	short := chunkFunc(func(_ context.Context, records []domain.Record) ([]domain.ClassificationResult, error) {
		return make([]domain.ClassificationResult, len(records)-1), nil
	})

	o, err := NewOrchestrator(short, 5, 1, nil)
	require.NoError(t, err)

	results := o.Run(context.Background(), numberedRecords(5))
	require.Len(t, results, 5)

	for _, res := range results {
		assert.Equal(t, domain.MethodUnclassified, res.Method)
	}
}

type chunkFunc func(ctx context.Context, records []domain.Record) ([]domain.ClassificationResult, error)

func (f chunkFunc) ClassifyChunk(ctx context.Context, records []domain.Record) ([]domain.ClassificationResult, error) {
	return f(ctx, records)
}

func TestOrchestratorProgress(t *testing.T) {
	o, err := NewOrchestrator(&echoClassifier{}, 10, 3, nil)
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		seen  []int
		total int
	)

	o.SetProgress(func(done, all int) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, done)
		total = all
	})

	results := o.Run(context.Background(), numberedRecords(95))
	require.Len(t, results, 95)

	assert.Equal(t, 10, total)
	require.Len(t, seen, 10)

	for i, done := range seen {
		assert.Equal(t, i+1, done, "progress must be monotonic")
	}
}

func TestOrchestratorEmptyInput(t *testing.T) {
	o, err := NewOrchestrator(&echoClassifier{}, 10, 2, nil)
	require.NoError(t, err)

	assert.Empty(t, o.Run(context.Background(), nil))
	assert.Empty(t, o.Run(context.Background(), []domain.Record{}))
}

func TestOrchestratorCanceledContextStillReturnsFullSet(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o, err := NewOrchestrator(&echoClassifier{}, 3, 2, nil)
	require.NoError(t, err)

	results := o.Run(ctx, numberedRecords(10))
	require.Len(t, results, 10)

	for i, res := range results {
		assert.Equal(t, i, res.Index)
	}
}

// timeoutClient simulates an endpoint that times out for one specific batch.
type timeoutClient struct {
	failText string
}

func (c *timeoutClient) ClassifyBatch(_ context.Context, texts []string) (*llm.Outcome, error) {
	results := make([]llm.BatchResult, len(texts))

	for i, text := range texts {
		if text == c.failText {
			return nil, context.DeadlineExceeded
		}

		results[i] = llm.BatchResult{Index: i, Sentiment: "negative", Category: "network", Confidence: 0.9}
	}

	return &llm.Outcome{Results: results, Provider: "stub", Model: "stub-model"}, nil
}

func TestOrchestratorDegradesOnlyTheFailingChunk(t *testing.T) {
	// 50 chunks of 2 records; the LLM call for the chunk holding
	// tweet-014 (chunk 7) always times out. Its records must come back
	// rule-classified while every other chunk stays on the LLM path.
	classifier := NewClassifier(&timeoutClient{failText: "tweet-014"}, newTestRules(t), 1, time.Millisecond, nil)

	o, err := NewOrchestrator(classifier, 2, 4, nil)
	require.NoError(t, err)

	results := o.Run(context.Background(), numberedRecords(100))
	require.Len(t, results, 100)

	for i, res := range results {
		assert.Equal(t, i, res.Index)

		if i == 14 || i == 15 {
			assert.Equal(t, domain.MethodFallback, res.Method)
		} else {
			assert.Equal(t, domain.MethodLLM, res.Method)
		}
	}
}

func TestNewOrchestratorValidation(t *testing.T) {
	_, err := NewOrchestrator(nil, 10, 1, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidConfig)

	_, err = NewOrchestrator(&echoClassifier{}, 0, 1, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidConfig)

	_, err = NewOrchestrator(&echoClassifier{}, 10, -1, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidConfig)
}
