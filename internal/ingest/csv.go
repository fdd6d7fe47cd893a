// Package ingest loads raw tweet collections from CSV exports. The scraper
// writes one row per tweet with a free-form column set; only the text column
// is mandatory.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/core/domain"
	apperrors "github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/core/errors"
)

const (
	logKeyPath    = "path"
	logKeyRecords = "records"
	logKeyColumn  = "column"
)

// CSVLoader reads tweet records from CSV. Column names are matched
// case-insensitively against the header row.
type CSVLoader struct {
	textColumn string
	idColumn   string
	logger     *zerolog.Logger
}

// NewCSVLoader builds a loader for the given column layout. An empty id
// column means row IDs are generated.
func NewCSVLoader(textColumn, idColumn string, logger *zerolog.Logger) (*CSVLoader, error) {
	if textColumn == "" {
		return nil, fmt.Errorf("%w: text column name must not be empty", apperrors.ErrInvalidConfig)
	}

	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &CSVLoader{
		textColumn: textColumn,
		idColumn:   idColumn,
		logger:     logger,
	}, nil
}

// LoadFile reads a whole CSV file into records.
func (l *CSVLoader) LoadFile(path string) ([]domain.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	records, err := l.Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	l.logger.Info().Str(logKeyPath, path).Int(logKeyRecords, len(records)).Msg("loaded tweet collection")

	return records, nil
}

// Load parses CSV from r. It fails loudly when the configured text column is
// absent: silently classifying the wrong column would corrupt a whole run.
func (l *CSVLoader) Load(r io.Reader) ([]domain.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %q (empty input)", apperrors.ErrMissingColumn, l.textColumn)
	}

	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	textIdx, idIdx := -1, -1

	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case strings.ToLower(l.textColumn):
			textIdx = i
		case strings.ToLower(l.idColumn):
			if l.idColumn != "" {
				idIdx = i
			}
		}
	}

	if textIdx < 0 {
		return nil, fmt.Errorf("%w: %q not found in header %v", apperrors.ErrMissingColumn, l.textColumn, header)
	}

	if l.idColumn != "" && idIdx < 0 {
		l.logger.Warn().Str(logKeyColumn, l.idColumn).Msg("id column not found, generating row ids")
	}

	var records []domain.Record

	line := 1

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}

		line++

		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", line, err)
		}

		if textIdx >= len(row) {
			continue
		}

		rec := domain.Record{
			Text:   row[textIdx],
			Fields: make(map[string]string, len(header)),
		}

		if idIdx >= 0 && idIdx < len(row) && row[idIdx] != "" {
			rec.ID = row[idIdx]
		} else {
			rec.ID = uuid.NewString()
		}

		for i, name := range header {
			if i == textIdx || i >= len(row) {
				continue
			}

			rec.Fields[name] = row[i]
		}

		records = append(records, rec)
	}

	return records, nil
}
