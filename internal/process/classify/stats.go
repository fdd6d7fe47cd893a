package classify

import (
	"github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/core/domain"
)

// ComputeStats aggregates a result set into per-sentiment / per-category
// counts and confidence bounds.
func ComputeStats(results []domain.ClassificationResult) domain.ClassificationStats {
	stats := domain.ClassificationStats{
		Total:       len(results),
		BySentiment: make(map[domain.Sentiment]int),
		ByCategory:  make(map[domain.Category]int),
	}

	if len(results) == 0 {
		return stats
	}

	var sum float64

	stats.MinConfidence = results[0].Confidence
	stats.MaxConfidence = results[0].Confidence

	for _, res := range results {
		stats.BySentiment[res.Sentiment]++
		stats.ByCategory[res.Category]++

		switch res.Method {
		case domain.MethodLLM:
			stats.LLMCount++
		case domain.MethodFallback:
			stats.FallbackCount++
		}

		sum += res.Confidence

		if res.Confidence < stats.MinConfidence {
			stats.MinConfidence = res.Confidence
		}

		if res.Confidence > stats.MaxConfidence {
			stats.MaxConfidence = res.Confidence
		}
	}

	stats.AvgConfidence = sum / float64(len(results))

	return stats
}
