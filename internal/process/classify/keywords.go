// Package classify implements sentiment/category classification of cleaned
// tweets: a deterministic keyword fallback, an LLM-backed batch classifier
// that degrades to the fallback, and the orchestrator fanning batches out to
// a worker pool.
package classify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/core/domain"
	apperrors "github.com/Archimed-Anderson/FreeMobilaChat-sub003/internal/core/errors"
)

// CategoryRule maps a category to its ordered trigger terms. Multi-word
// triggers are matched as phrases, single words as stemmed tokens.
type CategoryRule struct {
	Name     domain.Category `yaml:"name"`
	Triggers []string        `yaml:"triggers"`
}

// Lexicon is the versioned keyword configuration driving the rule-based
// classifier. It is loaded once at startup and immutable afterwards.
type Lexicon struct {
	Version    string         `yaml:"version"`
	Positive   []string       `yaml:"positive"`
	Negative   []string       `yaml:"negative"`
	Categories []CategoryRule `yaml:"categories"`
}

// DefaultLexicon returns the compiled-in French lexicon for telecom
// customer-support tweets.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Version: "v1",
		Positive: []string{
			"merci", "super", "bravo", "parfait", "excellent", "top",
			"génial", "content", "satisfait", "rapide", "efficace",
			"impeccable", "nickel", "recommande", "félicitations",
		},
		Negative: []string{
			"nul", "panne", "problème", "scandale", "arnaque", "honte",
			"lent", "horrible", "inadmissible", "bug", "coupure",
			"mauvais", "pire", "déception", "injoignable", "inacceptable",
			"catastrophe", "escroquerie",
		},
		Categories: []CategoryRule{
			{
				Name: domain.CategoryNetwork,
				Triggers: []string{
					"réseau", "4g", "5g", "antenne", "panne", "coupure",
					"connexion", "débit", "signal", "fibre", "couverture",
					"zone blanche",
				},
			},
			{
				Name: domain.CategoryBilling,
				Triggers: []string{
					"facture", "facturation", "prélèvement", "remboursement",
					"surfacturation", "tarif", "payé", "euros",
				},
			},
			{
				Name: domain.CategoryCustomerService,
				Triggers: []string{
					"service client", "conseiller", "hotline", "assistance",
					"réponse", "attente", "injoignable",
				},
			},
			{
				Name: domain.CategoryTechnical,
				Triggers: []string{
					"bug", "application", "box", "sim", "activation",
					"mise à jour", "configuration", "compte", "mot de passe",
				},
			},
			{
				Name: domain.CategoryCommercial,
				Triggers: []string{
					"offre", "forfait", "abonnement", "promo", "résiliation",
					"engagement", "souscription",
				},
			},
		},
	}
}

// LoadLexicon reads a lexicon from a YAML file, falling back to the default
// when path is empty.
func LoadLexicon(path string) (Lexicon, error) {
	if path == "" {
		return DefaultLexicon(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, fmt.Errorf("reading keyword config: %w", err)
	}

	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return Lexicon{}, fmt.Errorf("parsing keyword config: %w", err)
	}

	if err := lex.validate(); err != nil {
		return Lexicon{}, err
	}

	return lex, nil
}

func (l Lexicon) validate() error {
	if len(l.Positive) == 0 || len(l.Negative) == 0 {
		return fmt.Errorf("%w: lexicon needs positive and negative keyword sets", apperrors.ErrInvalidConfig)
	}

	for _, rule := range l.Categories {
		if !rule.Name.Valid() {
			return fmt.Errorf("%w: unknown category %q in lexicon", apperrors.ErrInvalidConfig, rule.Name)
		}

		if len(rule.Triggers) == 0 {
			return fmt.Errorf("%w: category %q has no triggers", apperrors.ErrInvalidConfig, rule.Name)
		}
	}

	return nil
}
