package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/core/domain"
)

func TestPipelineRun(t *testing.T) {
	p := NewPipeline(DefaultOptions(), nil)

	records := []domain.Record{
		{ID: "1", Text: "@Free service nul"},
		{ID: "2", Text: "@Free service nul"},
		{ID: "3", Text: "merci super"},
		{ID: "4", Text: "   "},
	}

	out, stats := p.Run(records)

	require.Len(t, out, 2)
	assert.Equal(t, "service nul", out[0].CleanText)
	assert.Equal(t, "merci super", out[1].CleanText)

	assert.Equal(t, 4, stats.TotalInput)
	assert.Equal(t, 1, stats.EmptyDropped)
	assert.Equal(t, 1, stats.DuplicatesRemoved)
	assert.Equal(t, 2, stats.OutputCount)
	assert.Positive(t, stats.AvgLengthBefore)
	assert.Positive(t, stats.AvgLengthAfter)
}

func TestPipelineRunEmptyInput(t *testing.T) {
	p := NewPipeline(DefaultOptions(), nil)

	out, stats := p.Run(nil)

	assert.Empty(t, out)
	assert.Equal(t, domain.CleaningStats{}, stats)
}

func TestPipelineRunAllEmpty(t *testing.T) {
	p := NewPipeline(DefaultOptions(), nil)

	records := []domain.Record{
		{ID: "1", Text: ""},
		{ID: "2", Text: "\t"},
		{ID: "3", Text: "https://only-a-link.example.com"},
	}

	out, stats := p.Run(records)

	assert.Empty(t, out)
	assert.Equal(t, 3, stats.TotalInput)
	assert.Equal(t, 3, stats.EmptyDropped)
	assert.Zero(t, stats.OutputCount)
	assert.Zero(t, stats.AvgLengthAfter)
}

func TestPipelineDoesNotMutateInput(t *testing.T) {
	p := NewPipeline(DefaultOptions(), nil)

	records := []domain.Record{{ID: "1", Text: "@Free MERCI"}}

	out, _ := p.Run(records)

	require.Len(t, out, 1)
	assert.Equal(t, "@Free MERCI", records[0].Text)
	assert.Empty(t, records[0].CleanText)
	assert.Equal(t, "merci", out[0].CleanText)
}
