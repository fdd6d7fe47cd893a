package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/app"
	"github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/output/report"
	"github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/platform/config"
)

func main() {
	root := &cobra.Command{
		Use:           "tweetclass",
		Short:         "Clean and classify customer-support tweets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newCleanCmd(), newClassifyCmd())

	if err := root.Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(0)
		}

		log.Fatalf("tweetclass: %v", err)
	}
}

func newCleanCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "clean <input.csv>",
		Short: "Run only the cleaning stage and print its statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, logger, err := setup()
			if err != nil {
				return err
			}

			cleaned, stats, err := application.Clean(args[0])
			if err != nil {
				return err
			}

			logger.Info().
				Int("total_input", stats.TotalInput).
				Int("empty_dropped", stats.EmptyDropped).
				Int("duplicates_removed", stats.DuplicatesRemoved).
				Int("output_count", stats.OutputCount).
				Msg("cleaning finished")

			if output == "" {
				return nil
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			defer f.Close()

			for _, rec := range cleaned {
				if _, err := fmt.Fprintln(f, rec.CleanText); err != nil {
					return err
				}
			}

			return f.Close()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write cleaned texts to this file, one per line")

	return cmd
}

func newClassifyCmd() *cobra.Command {
	var (
		output     string
		reportPath string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "classify <input.csv>",
		Short: "Run the full clean + classify pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, logger, err := setup()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			go func() {
				if err := application.StartHealthServer(ctx); err != nil {
					logger.Error().Err(err).Msg("health server error")
				}
			}()

			application.SetProgress(func(done, total int) {
				logger.Info().Int("done", done).Int("total", total).Msg("chunk progress")
			})

			startedAt := time.Now()

			result, err := application.RunJob(ctx, args[0])
			if err != nil {
				return err
			}

			logger.Info().
				Int("total", result.Classification.Total).
				Int("llm", result.Classification.LLMCount).
				Int("fallback", result.Classification.FallbackCount).
				Float64("avg_confidence", result.Classification.AvgConfidence).
				Msg("classification finished")

			if output != "" {
				if err := app.WriteOutput(result, output, format); err != nil {
					return err
				}

				logger.Info().Str("output", output).Msg("classified records written")
			} else {
				if err := report.WriteJSON(os.Stdout, result.Records); err != nil {
					return err
				}
			}

			if reportPath != "" {
				if err := app.WriteReport(result, reportPath, startedAt); err != nil {
					return err
				}

				logger.Info().Str("report", reportPath).Msg("run report written")
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write classified records to this file (stdout when empty)")
	cmd.Flags().StringVarP(&reportPath, "report", "r", "", "write the JSON run report to this file")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format, csv or json (default from file extension)")

	return cmd
}

func setup() (*app.App, *zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger := newLogger(cfg.AppEnv)

	application, err := app.New(cfg, &logger)
	if err != nil {
		return nil, nil, err
	}

	return application, &logger, nil
}

func newLogger(appEnv string) zerolog.Logger {
	if appEnv == "local" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
