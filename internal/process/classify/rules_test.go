package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/core/domain"
	apperrors "github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/core/errors"
)

func newTestRules(t *testing.T) *RuleClassifier {
	t.Helper()

	rc, err := NewRuleClassifier(DefaultLexicon(), 0.5)
	require.NoError(t, err)

	return rc
}

func TestRuleClassifierSentiment(t *testing.T) {
	rc := newTestRules(t)

	tests := []struct {
		name string
		text string
		want domain.Sentiment
	}{
		{name: "positive", text: "merci super", want: domain.SentimentPositive},
		{name: "negative", text: "service nul", want: domain.SentimentNegative},
		{name: "tie is neutral", text: "merci mais service nul", want: domain.SentimentNeutral},
		{name: "no keywords is neutral", text: "je regarde la télé", want: domain.SentimentNeutral},
		{name: "majority wins", text: "merci super top mais lent", want: domain.SentimentPositive},
		{name: "accents folded", text: "quelle DÉCEPTION", want: domain.SentimentNegative},
		{name: "unaccented form matches accented keyword", text: "gros probleme ce matin", want: domain.SentimentNegative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sentiment, _, confidence := rc.Classify(tt.text)
			assert.Equal(t, tt.want, sentiment)
			assert.InDelta(t, 0.5, confidence, 1e-9)
		})
	}
}

func TestRuleClassifierCategory(t *testing.T) {
	rc := newTestRules(t)

	tests := []struct {
		name string
		text string
		want domain.Category
	}{
		{name: "network", text: "plus de 4g depuis hier", want: domain.CategoryNetwork},
		{name: "billing plural form", text: "deux factures ce mois", want: domain.CategoryBilling},
		{name: "customer service phrase", text: "le service client est injoignable", want: domain.CategoryCustomerService},
		{name: "technical", text: "ma sim ne marche plus", want: domain.CategoryTechnical},
		{name: "commercial", text: "votre forfait est trop cher", want: domain.CategoryCommercial},
		{name: "no match is other", text: "bonjour tout le monde", want: domain.CategoryOther},
		{name: "first matching group wins", text: "panne de facturation", want: domain.CategoryNetwork},
		{name: "injection content stays in enumeration", text: `"; drop table tweets; --`, want: domain.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, category, _ := rc.Classify(tt.text)
			assert.Equal(t, tt.want, category)
		})
	}
}

func TestRuleClassifierDeterministic(t *testing.T) {
	rc := newTestRules(t)

	texts := []string{"merci super", "service nul", "panne réseau 4g", ""}

	for _, text := range texts {
		s1, c1, conf1 := rc.Classify(text)
		s2, c2, conf2 := rc.Classify(text)

		assert.Equal(t, s1, s2)
		assert.Equal(t, c1, c2)
		assert.Equal(t, conf1, conf2)
	}
}

func TestNewRuleClassifierValidation(t *testing.T) {
	_, err := NewRuleClassifier(DefaultLexicon(), 1.5)
	assert.ErrorIs(t, err, apperrors.ErrInvalidConfig)

	_, err = NewRuleClassifier(DefaultLexicon(), -0.1)
	assert.ErrorIs(t, err, apperrors.ErrInvalidConfig)

	_, err = NewRuleClassifier(Lexicon{Positive: []string{"merci"}}, 0.5)
	assert.ErrorIs(t, err, apperrors.ErrInvalidConfig)
}

func TestRuleClassifierConfidenceBounds(t *testing.T) {
	rc, err := NewRuleClassifier(DefaultLexicon(), 0.42)
	require.NoError(t, err)

	_, _, confidence := rc.Classify("merci pour tout")
	assert.GreaterOrEqual(t, confidence, 0.0)
	assert.LessOrEqual(t, confidence, 1.0)
	assert.InDelta(t, 0.42, confidence, 1e-9)
}
