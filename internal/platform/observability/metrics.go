package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecordsCleaned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tweetclass_records_cleaned_total",
		Help: "The total number of records that passed the cleaning pipeline",
	})

	RecordsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tweetclass_records_dropped_total",
		Help: "The total number of records dropped during cleaning",
	}, []string{"reason"})

	RecordsClassified = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tweetclass_records_classified_total",
		Help: "The total number of records classified, by method",
	}, []string{"method"})

	LLMRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tweetclass_llm_request_duration_seconds",
		Help:    "Duration of LLM classification requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider", "model"})

	LLMRequestFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tweetclass_llm_request_failures_total",
		Help: "The total number of failed LLM classification requests",
	}, []string{"provider"})

	ChunksCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tweetclass_chunks_completed_total",
		Help: "The total number of orchestrator chunks completed, by status",
	}, []string{"status"})

	JobDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tweetclass_job_duration_seconds",
		Help:    "Duration in seconds of a full classification job",
		Buckets: []float64{1, 2, 5, 10, 30, 60, 120, 300, 600},
	})
)

// Drop reason label values.
const (
	DropReasonEmpty     = "empty"
	DropReasonDuplicate = "duplicate"
)

// Chunk status label values.
const (
	ChunkStatusOK     = "ok"
	ChunkStatusFailed = "failed"
)
