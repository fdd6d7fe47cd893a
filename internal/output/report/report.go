// Package report renders pipeline outputs: the classified record table as
// CSV or JSON, and the run report combining cleaning and classification
// statistics.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/core/domain"
)

// ClassifiedRecord joins an input record with its classification result for
// output rendering.
type ClassifiedRecord struct {
	ID         string            `json:"id"`
	Text       string            `json:"text"`
	CleanText  string            `json:"clean_text"`
	Sentiment  domain.Sentiment  `json:"sentiment"`
	Category   domain.Category   `json:"category"`
	Confidence float64           `json:"confidence"`
	Method     domain.Method     `json:"method"`
	Model      string            `json:"model,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
	Fields     map[string]string `json:"fields,omitempty"`
}

// Join zips records with their results. Both slices come out of the
// orchestrator aligned by position; a length mismatch is a programming error.
func Join(records []domain.Record, results []domain.ClassificationResult) ([]ClassifiedRecord, error) {
	if len(records) != len(results) {
		return nil, fmt.Errorf("record/result count mismatch: %d vs %d", len(records), len(results))
	}

	joined := make([]ClassifiedRecord, len(records))
	for i, rec := range records {
		res := results[i]
		joined[i] = ClassifiedRecord{
			ID:         rec.ID,
			Text:       rec.Text,
			CleanText:  rec.CleanText,
			Sentiment:  res.Sentiment,
			Category:   res.Category,
			Confidence: res.Confidence,
			Method:     res.Method,
			Model:      res.Model,
			Timestamp:  res.Timestamp,
			Fields:     rec.Fields,
		}
	}

	return joined, nil
}

// WriteCSV renders the classified table as CSV with a fixed column layout.
// Passthrough fields are not included; the JSON form carries them.
func WriteCSV(w io.Writer, records []ClassifiedRecord) error {
	cw := csv.NewWriter(w)

	header := []string{"id", "text", "clean_text", "sentiment", "category", "confidence", "method", "model", "timestamp"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, rec := range records {
		row := []string{
			rec.ID,
			rec.Text,
			rec.CleanText,
			string(rec.Sentiment),
			string(rec.Category),
			strconv.FormatFloat(rec.Confidence, 'f', 4, 64),
			string(rec.Method),
			rec.Model,
			rec.Timestamp.UTC().Format(time.RFC3339),
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing record %s: %w", rec.ID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// WriteJSON renders the classified table as an indented JSON array.
func WriteJSON(w io.Writer, records []ClassifiedRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	return enc.Encode(records)
}

// RunReport is the statistics document written alongside the classified
// output.
type RunReport struct {
	RunID          string                     `json:"run_id"`
	StartedAt      time.Time                  `json:"started_at"`
	FinishedAt     time.Time                  `json:"finished_at"`
	Cleaning       domain.CleaningStats       `json:"cleaning"`
	Classification domain.ClassificationStats `json:"classification"`
}

// WriteReport renders the run report as indented JSON.
func WriteReport(w io.Writer, report RunReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(report)
}
