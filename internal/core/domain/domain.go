// Package domain defines the data types flowing through the cleaning and
// classification pipeline. Values are treated as immutable once produced:
// each stage returns new copies instead of mutating its input.
package domain

import "time"

// Record represents one input tweet plus its passthrough metadata.
type Record struct {
	ID        string
	Text      string
	CleanText string
	Fields    map[string]string
}

// Sentiment is the fixed sentiment enumeration.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Valid reports whether s is a member of the sentiment enumeration.
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	default:
		return false
	}
}

// Category is the fixed support-topic enumeration.
type Category string

const (
	CategoryNetwork         Category = "network"
	CategoryBilling         Category = "billing"
	CategoryCustomerService Category = "customer_service"
	CategoryTechnical       Category = "technical"
	CategoryCommercial      Category = "commercial"
	CategoryOther           Category = "other"
)

// Valid reports whether c is a member of the category enumeration.
func (c Category) Valid() bool {
	switch c {
	case CategoryNetwork, CategoryBilling, CategoryCustomerService,
		CategoryTechnical, CategoryCommercial, CategoryOther:
		return true
	default:
		return false
	}
}

// Method identifies which path produced a classification result.
type Method string

const (
	// MethodLLM marks results produced by the external LLM call.
	MethodLLM Method = "llm"
	// MethodFallback marks results produced by the rule-based classifier.
	MethodFallback Method = "fallback"
	// MethodUnclassified marks last-resort substitutions for chunks whose
	// classification call failed entirely.
	MethodUnclassified Method = "unclassified"
)

// ClassificationResult is the per-record output of a classification call.
// A re-classification produces a new result; results are never updated.
type ClassificationResult struct {
	Index      int       `json:"index"`
	Sentiment  Sentiment `json:"sentiment"`
	Category   Category  `json:"category"`
	Confidence float64   `json:"confidence"`
	Method     Method    `json:"method"`
	Model      string    `json:"model"`
	Timestamp  time.Time `json:"timestamp"`
}

// CleaningStats holds aggregate counts for one cleaning pipeline run.
type CleaningStats struct {
	TotalInput        int     `json:"total_input"`
	EmptyDropped      int     `json:"empty_dropped"`
	DuplicatesRemoved int     `json:"duplicates_removed"`
	OutputCount       int     `json:"output_count"`
	AvgLengthBefore   float64 `json:"avg_length_before"`
	AvgLengthAfter    float64 `json:"avg_length_after"`
}

// ClassificationStats summarizes one classification run.
type ClassificationStats struct {
	Total         int               `json:"total"`
	BySentiment   map[Sentiment]int `json:"by_sentiment"`
	ByCategory    map[Category]int  `json:"by_category"`
	LLMCount      int               `json:"llm_count"`
	FallbackCount int               `json:"fallback_count"`
	AvgConfidence float64           `json:"avg_confidence"`
	MinConfidence float64           `json:"min_confidence"`
	MaxConfidence float64           `json:"max_confidence"`
}

// ClampConfidence bounds a confidence score to [0, 1].
func ClampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}

	if v > 1 {
		return 1
	}

	return v
}
