package clean

import (
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/core/domain"
	"github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/platform/observability"
)

// Log key constants for cleaning.
const (
	logKeyTotal      = "total"
	logKeyEmpty      = "empty"
	logKeyDuplicates = "duplicates"
	logKeyOutput     = "output"
)

// Pipeline runs the cleaning stage over a batch of records: empty-value
// filtering, normalization, then strict deduplication. The pipeline is a
// pure transformation; input records are never mutated.
type Pipeline struct {
	normalizer *Normalizer
	logger     *zerolog.Logger
}

// NewPipeline builds a cleaning pipeline with the given normalizer options.
func NewPipeline(opts Options, logger *zerolog.Logger) *Pipeline {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &Pipeline{
		normalizer: NewNormalizer(opts),
		logger:     logger,
	}
}

// Run cleans the batch and returns new records with CleanText populated,
// plus the run's aggregate stats. An empty input batch yields an empty
// output and zero-valued stats.
func (p *Pipeline) Run(records []domain.Record) ([]domain.Record, domain.CleaningStats) {
	stats := domain.CleaningStats{TotalInput: len(records)}

	if len(records) == 0 {
		return nil, stats
	}

	var lengthBefore int

	cleaned := make([]domain.Record, 0, len(records))

	for _, rec := range records {
		lengthBefore += utf8.RuneCountInString(rec.Text)

		if strings.TrimSpace(rec.Text) == "" {
			stats.EmptyDropped++
			continue
		}

		normalized := p.normalizer.Normalize(rec.Text)
		if normalized == "" {
			// Nothing but noise (URLs, mentions) survived normalization.
			stats.EmptyDropped++
			continue
		}

		out := rec
		out.CleanText = normalized
		cleaned = append(cleaned, out)
	}

	observability.RecordsDropped.WithLabelValues(observability.DropReasonEmpty).Add(float64(stats.EmptyDropped))

	if len(cleaned) == 0 && len(records) > 0 {
		p.logger.Warn().Int(logKeyTotal, len(records)).Msg("every record in the batch was empty after cleaning")
	}

	deduped := Deduplicate(cleaned)
	stats.DuplicatesRemoved = deduped.RemovedCount
	stats.OutputCount = len(deduped.Records)

	observability.RecordsDropped.WithLabelValues(observability.DropReasonDuplicate).Add(float64(deduped.RemovedCount))
	observability.RecordsCleaned.Add(float64(stats.OutputCount))

	var lengthAfter int
	for _, rec := range deduped.Records {
		lengthAfter += utf8.RuneCountInString(rec.CleanText)
	}

	stats.AvgLengthBefore = average(lengthBefore, stats.TotalInput)
	stats.AvgLengthAfter = average(lengthAfter, stats.OutputCount)

	p.logger.Debug().
		Int(logKeyTotal, stats.TotalInput).
		Int(logKeyEmpty, stats.EmptyDropped).
		Int(logKeyDuplicates, stats.DuplicatesRemoved).
		Int(logKeyOutput, stats.OutputCount).
		Msg("cleaning pipeline finished")

	return deduped.Records, stats
}

func average(sum, count int) float64 {
	if count == 0 {
		return 0
	}

	return float64(sum) / float64(count)
}
