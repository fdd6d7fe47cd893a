// Package app wires configuration, the cleaning pipeline, the classifier
// stack and the output writers into runnable jobs.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/core/domain"
	"github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/core/llm"
	"github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/ingest"
	"github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/output/report"
	"github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/platform/config"
	"github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/platform/observability"
	"github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/process/classify"
	"github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/process/clean"
)

const (
	logKeyRunID   = "run_id"
	logKeyInput   = "input"
	logKeyOutput  = "output"
	logKeyRecords = "records"

	// FormatCSV and FormatJSON select the classified-output encoding.
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// App holds the assembled pipeline components for one process lifetime.
type App struct {
	cfg          *config.Config
	logger       *zerolog.Logger
	loader       *ingest.CSVLoader
	pipeline     *clean.Pipeline
	orchestrator *classify.Orchestrator
}

// New assembles the full pipeline from configuration. Construction fails on
// invalid policy values rather than deferring errors to job time.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	loader, err := ingest.NewCSVLoader(cfg.TextColumn, cfg.IDColumn, logger)
	if err != nil {
		return nil, err
	}

	pipeline := clean.NewPipeline(cleaningOptions(cfg), logger)

	lexicon, err := classify.LoadLexicon(cfg.KeywordConfigPath)
	if err != nil {
		return nil, err
	}

	rules, err := classify.NewRuleClassifier(lexicon, cfg.FallbackConfidence)
	if err != nil {
		return nil, err
	}

	client := llm.New(cfg, logger)
	classifier := classify.NewClassifier(client, rules, cfg.LLMMaxRetries, cfg.LLMRetryDelay, logger)

	orchestrator, err := classify.NewOrchestrator(classifier, cfg.BatchSize, cfg.WorkerCount, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:          cfg,
		logger:       logger,
		loader:       loader,
		pipeline:     pipeline,
		orchestrator: orchestrator,
	}, nil
}

func cleaningOptions(cfg *config.Config) clean.Options {
	mode := clean.EmojiDrop
	if cfg.ConvertEmojis {
		mode = clean.EmojiConvert
	}

	return clean.Options{
		RemoveURLs:       cfg.RemoveURLs,
		RemoveMentions:   cfg.RemoveMentions,
		RemoveHashtags:   cfg.RemoveHashtags,
		EmojiMode:        mode,
		MentionAllowlist: cfg.MentionAllow,
	}
}

// SetProgress forwards a progress sink to the orchestrator. Must be called
// before RunJob.
func (a *App) SetProgress(fn classify.ProgressFunc) {
	a.orchestrator.SetProgress(fn)
}

// StartHealthServer serves /healthz and /metrics until ctx is canceled.
func (a *App) StartHealthServer(ctx context.Context) error {
	return observability.NewServer(a.cfg.HealthPort, a.logger).Start(ctx)
}

// JobResult carries everything a job produced, for callers that render the
// output themselves.
type JobResult struct {
	RunID          string
	Records        []report.ClassifiedRecord
	Cleaning       domain.CleaningStats
	Classification domain.ClassificationStats
}

// Clean runs only the cleaning stage on a CSV file and returns the cleaned
// records with their stats.
func (a *App) Clean(inputPath string) ([]domain.Record, domain.CleaningStats, error) {
	records, err := a.loader.LoadFile(inputPath)
	if err != nil {
		return nil, domain.CleaningStats{}, err
	}

	cleaned, stats := a.pipeline.Run(records)

	return cleaned, stats, nil
}

// RunJob executes the full pipeline on a CSV file: clean, classify, join.
func (a *App) RunJob(ctx context.Context, inputPath string) (*JobResult, error) {
	runID := uuid.NewString()
	logger := a.logger.With().Str(logKeyRunID, runID).Logger()

	logger.Info().Str(logKeyInput, inputPath).Msg("starting classification job")

	cleaned, cleaningStats, err := a.Clean(inputPath)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int(logKeyRecords, len(cleaned)).
		Int("empty_dropped", cleaningStats.EmptyDropped).
		Int("duplicates_removed", cleaningStats.DuplicatesRemoved).
		Msg("cleaning finished")

	results := a.orchestrator.Run(ctx, cleaned)

	joined, err := report.Join(cleaned, results)
	if err != nil {
		return nil, err
	}

	return &JobResult{
		RunID:          runID,
		Records:        joined,
		Cleaning:       cleaningStats,
		Classification: classify.ComputeStats(results),
	}, nil
}

// WriteOutput renders the classified records to outputPath, picking the
// encoder from the format or, when format is empty, the file extension.
func WriteOutput(result *JobResult, outputPath, format string) error {
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(outputPath), ".")
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outputPath, err)
	}
	defer f.Close()

	switch strings.ToLower(format) {
	case FormatCSV:
		err = report.WriteCSV(f, result.Records)
	case FormatJSON:
		err = report.WriteJSON(f, result.Records)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	if err != nil {
		return err
	}

	return f.Close()
}

// WriteReport renders the run statistics document to reportPath.
func WriteReport(result *JobResult, reportPath string, startedAt time.Time) error {
	f, err := os.Create(reportPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", reportPath, err)
	}
	defer f.Close()

	doc := report.RunReport{
		RunID:          result.RunID,
		StartedAt:      startedAt.UTC(),
		FinishedAt:     time.Now().UTC(),
		Cleaning:       result.Cleaning,
		Classification: result.Classification,
	}

	if err := report.WriteReport(f, doc); err != nil {
		return err
	}

	return f.Close()
}
