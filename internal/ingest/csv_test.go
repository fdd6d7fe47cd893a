package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/core/errors"
)

func newTestLoader(t *testing.T, textColumn, idColumn string) *CSVLoader {
	t.Helper()

	l, err := NewCSVLoader(textColumn, idColumn, nil)
	require.NoError(t, err)

	return l
}

func TestCSVLoaderBasic(t *testing.T) {
	input := `id,text,author
42,"Plus de réseau à Lyon",alice
43,"Merci @Free_1337 pour la fibre !",bob
`

	records, err := newTestLoader(t, "text", "id").Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "42", records[0].ID)
	assert.Equal(t, "Plus de réseau à Lyon", records[0].Text)
	assert.Equal(t, "alice", records[0].Fields["author"])
	assert.Equal(t, "43", records[1].ID)
}

func TestCSVLoaderHeaderCaseInsensitive(t *testing.T) {
	input := "Tweet_ID,Full_Text\n1,bonjour\n"

	records, err := newTestLoader(t, "full_text", "tweet_id").Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "bonjour", records[0].Text)
	assert.Equal(t, "1", records[0].ID)
}

func TestCSVLoaderMissingTextColumn(t *testing.T) {
	input := "id,message\n1,bonjour\n"

	_, err := newTestLoader(t, "text", "id").Load(strings.NewReader(input))
	assert.ErrorIs(t, err, apperrors.ErrMissingColumn)
}

func TestCSVLoaderEmptyInput(t *testing.T) {
	_, err := newTestLoader(t, "text", "").Load(strings.NewReader(""))
	assert.ErrorIs(t, err, apperrors.ErrMissingColumn)
}

func TestCSVLoaderGeneratesIDs(t *testing.T) {
	input := "text\nbonjour\nmerci\n"

	records, err := newTestLoader(t, "text", "").Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.NotEmpty(t, records[0].ID)
	assert.NotEmpty(t, records[1].ID)
	assert.NotEqual(t, records[0].ID, records[1].ID)
}

func TestCSVLoaderRaggedRows(t *testing.T) {
	input := "id,text,author\n1,bonjour\n2,merci,carol,extra\n"

	records, err := newTestLoader(t, "text", "id").Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "bonjour", records[0].Text)
	assert.Empty(t, records[0].Fields["author"])
	assert.Equal(t, "carol", records[1].Fields["author"])
}

func TestCSVLoaderQuotedNewlines(t *testing.T) {
	input := "id,text\n1,\"ligne un\nligne deux\"\n"

	records, err := newTestLoader(t, "text", "id").Load(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ligne un\nligne deux", records[0].Text)
}

func TestNewCSVLoaderValidation(t *testing.T) {
	_, err := NewCSVLoader("", "id", nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidConfig)
}
