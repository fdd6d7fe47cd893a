package classify

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/core/domain"
	apperrors "github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/core/errors"
)

// diacriticsFolder strips combining marks so "réseau" and "reseau" compare
// equal. French tweets are typed with and without accents about equally often.
var diacriticsFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func foldDiacritics(s string) string {
	folded, _, err := transform.String(diacriticsFolder, s)
	if err != nil {
		return s
	}

	return folded
}

// matchKey canonicalizes a single word for lexicon lookup: diacritics folded,
// lower-cased, stemmed with the French Snowball stemmer.
func matchKey(word string) string {
	word = strings.ToLower(foldDiacritics(word))

	stemmed, err := snowball.Stem(word, "french", false)
	if err != nil || stemmed == "" {
		return word
	}

	return stemmed
}

func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

type categoryMatcher struct {
	name    domain.Category
	tokens  map[string]struct{}
	phrases []string
}

// RuleClassifier is the deterministic local fallback. It is immutable after
// construction and safe for concurrent use.
type RuleClassifier struct {
	positive   map[string]struct{}
	negative   map[string]struct{}
	categories []categoryMatcher
	confidence float64
}

// NewRuleClassifier compiles the lexicon into stemmed lookup sets. The
// confidence value is attached to every fallback result and must be in [0,1].
func NewRuleClassifier(lex Lexicon, confidence float64) (*RuleClassifier, error) {
	if confidence < 0 || confidence > 1 {
		return nil, fmt.Errorf("%w: fallback confidence must be in [0,1], got %f", apperrors.ErrInvalidConfig, confidence)
	}

	if err := lex.validate(); err != nil {
		return nil, err
	}

	rc := &RuleClassifier{
		positive:   compileTokens(lex.Positive),
		negative:   compileTokens(lex.Negative),
		confidence: confidence,
	}

	for _, rule := range lex.Categories {
		matcher := categoryMatcher{name: rule.Name, tokens: make(map[string]struct{})}

		for _, trigger := range rule.Triggers {
			if strings.ContainsRune(trigger, ' ') {
				matcher.phrases = append(matcher.phrases, strings.ToLower(foldDiacritics(trigger)))
				continue
			}

			matcher.tokens[matchKey(trigger)] = struct{}{}
		}

		rc.categories = append(rc.categories, matcher)
	}

	return rc, nil
}

func compileTokens(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[matchKey(w)] = struct{}{}
	}

	return set
}

// Classify scores one text. It is deterministic: identical text and
// configuration always produce identical sentiment and category.
func (rc *RuleClassifier) Classify(text string) (domain.Sentiment, domain.Category, float64) {
	folded := strings.ToLower(foldDiacritics(text))
	tokens := tokenize(folded)

	keys := make([]string, len(tokens))
	for i, tok := range tokens {
		keys[i] = matchKey(tok)
	}

	return rc.scoreSentiment(keys), rc.matchCategory(folded, keys), rc.confidence
}

func (rc *RuleClassifier) scoreSentiment(keys []string) domain.Sentiment {
	var positive, negative int

	for _, key := range keys {
		if _, ok := rc.positive[key]; ok {
			positive++
		}

		if _, ok := rc.negative[key]; ok {
			negative++
		}
	}

	switch {
	case positive > negative:
		return domain.SentimentPositive
	case negative > positive:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

// matchCategory returns the first category, in lexicon order, with any
// matching trigger. No match yields the default category.
func (rc *RuleClassifier) matchCategory(folded string, keys []string) domain.Category {
	for _, matcher := range rc.categories {
		for _, key := range keys {
			if _, ok := matcher.tokens[key]; ok {
				return matcher.name
			}
		}

		for _, phrase := range matcher.phrases {
			if strings.Contains(folded, phrase) {
				return matcher.name
			}
		}
	}

	return domain.CategoryOther
}
