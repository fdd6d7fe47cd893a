package classify

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/core/domain"
	apperrors "github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/core/errors"
	"github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/platform/observability"
)

const (
	// The workload is dominated by waiting on the LLM endpoint, so more
	// workers than this buy nothing and only pile up requests.
	workerCap = 8

	logKeyChunk  = "chunk"
	logKeyChunks = "chunks"
	logKeyTotal  = "total"
)

// ChunkClassifier classifies one contiguous chunk of records. Results use
// chunk-relative indices.
type ChunkClassifier interface {
	ClassifyChunk(ctx context.Context, records []domain.Record) ([]domain.ClassificationResult, error)
}

// ProgressFunc receives incremental progress (chunks completed / total).
// It is an optional side channel, called from worker goroutines one at a time.
type ProgressFunc func(done, total int)

// Orchestrator partitions a record collection into fixed-size chunks,
// dispatches them to a bounded worker pool and reassembles the results in
// original order regardless of completion order.
type Orchestrator struct {
	classifier ChunkClassifier
	chunkSize  int
	workers    int
	progress   ProgressFunc
	logger     *zerolog.Logger
}

// NewOrchestrator validates the chunking policy at construction time;
// invalid values are programming errors, not job-time failures.
func NewOrchestrator(classifier ChunkClassifier, chunkSize, workers int, logger *zerolog.Logger) (*Orchestrator, error) {
	if classifier == nil {
		return nil, fmt.Errorf("%w: classifier must not be nil", apperrors.ErrInvalidConfig)
	}

	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", apperrors.ErrInvalidConfig, chunkSize)
	}

	if workers < 0 {
		return nil, fmt.Errorf("%w: worker count must not be negative, got %d", apperrors.ErrInvalidConfig, workers)
	}

	if workers == 0 {
		workers = defaultWorkers()
	}

	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &Orchestrator{
		classifier: classifier,
		chunkSize:  chunkSize,
		workers:    workers,
		logger:     logger,
	}, nil
}

// SetProgress installs an optional progress sink. Must be called before Run.
func (o *Orchestrator) SetProgress(fn ProgressFunc) {
	o.progress = fn
}

type chunkJob struct {
	index   int
	start   int
	records []domain.Record
}

// Run classifies the whole collection and returns one result per input
// record, in input order. Result indices are rebased to global positions.
// A chunk whose classification call fails is substituted with unclassified
// placeholders so the job always completes with a full result set.
func (o *Orchestrator) Run(ctx context.Context, records []domain.Record) []domain.ClassificationResult {
	if len(records) == 0 {
		return nil
	}

	start := time.Now()
	jobs := o.split(records)
	perChunk := make([][]domain.ClassificationResult, len(jobs))

	jobCh := make(chan chunkJob)

	var (
		wg         sync.WaitGroup
		progressMu sync.Mutex
		done       int
	)

	workers := o.workers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for job := range jobCh {
				perChunk[job.index] = o.runChunk(ctx, job)

				if o.progress != nil {
					progressMu.Lock()
					done++
					o.progress(done, len(jobs))
					progressMu.Unlock()
				}
			}
		}()
	}

	// Stop scheduling new chunks once the context is canceled; already
	// scheduled chunks still produce results.
	scheduled := 0

schedule:
	for _, job := range jobs {
		select {
		case jobCh <- job:
			scheduled++
		case <-ctx.Done():
			break schedule
		}
	}

	close(jobCh)
	wg.Wait()

	// Unscheduled chunks still owe one result per record.
	for i, job := range jobs {
		if perChunk[i] == nil {
			perChunk[i] = o.substituteChunk(job)
		}
	}

	results := make([]domain.ClassificationResult, 0, len(records))
	for _, chunkResults := range perChunk {
		results = append(results, chunkResults...)
	}

	observability.JobDurationSeconds.Observe(time.Since(start).Seconds())
	o.logger.Info().
		Int(logKeyTotal, len(records)).
		Int(logKeyChunks, len(jobs)).
		Int("scheduled", scheduled).
		Dur("elapsed", time.Since(start)).
		Msg("classification job finished")

	return results
}

func (o *Orchestrator) split(records []domain.Record) []chunkJob {
	jobs := make([]chunkJob, 0, (len(records)+o.chunkSize-1)/o.chunkSize)

	for start := 0; start < len(records); start += o.chunkSize {
		end := start + o.chunkSize
		if end > len(records) {
			end = len(records)
		}

		jobs = append(jobs, chunkJob{
			index:   len(jobs),
			start:   start,
			records: records[start:end],
		})
	}

	return jobs
}

func (o *Orchestrator) runChunk(ctx context.Context, job chunkJob) []domain.ClassificationResult {
	results, err := o.classifier.ClassifyChunk(ctx, job.records)
	if err != nil || len(results) != len(job.records) {
		if err == nil {
			err = fmt.Errorf("%w: got %d for %d records", apperrors.ErrResultCountMismatch, len(results), len(job.records))
		}

		o.logger.Error().Err(err).Int(logKeyChunk, job.index).Msg("chunk classification failed, substituting unclassified records")

		observability.ChunksCompleted.WithLabelValues(observability.ChunkStatusFailed).Inc()

		return o.substituteChunk(job)
	}

	observability.ChunksCompleted.WithLabelValues(observability.ChunkStatusOK).Inc()

	rebased := make([]domain.ClassificationResult, len(results))
	for i, res := range results {
		res.Index = job.start + i
		rebased[i] = res
	}

	return rebased
}

// substituteChunk is the last-resort path: the records pass through tagged
// as unclassified so the caller never loses a record.
func (o *Orchestrator) substituteChunk(job chunkJob) []domain.ClassificationResult {
	now := time.Now().UTC()

	results := make([]domain.ClassificationResult, len(job.records))
	for i := range job.records {
		results[i] = domain.ClassificationResult{
			Index:     job.start + i,
			Sentiment: domain.SentimentNeutral,
			Category:  domain.CategoryOther,
			Method:    domain.MethodUnclassified,
			Timestamp: now,
		}
	}

	return results
}

func defaultWorkers() int {
	workers := runtime.GOMAXPROCS(0)
	if workers > workerCap {
		workers = workerCap
	}

	if workers < 1 {
		workers = 1
	}

	return workers
}
