// Package emotion classifies free-text mood entries and maps the result to
// study advice.
package emotion

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/ashureev/study-companion/internal/domain"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultLexicon []byte

// Result is the outcome of classifying one entry.
type Result struct {
	Emotion domain.Emotion `json:"emotion"`
	Glyph   string         `json:"glyph"`
}

type rule struct {
	emotion  domain.Emotion
	keywords []string
}

type lexiconFile struct {
	Rules []struct {
		Emotion  string   `yaml:"emotion"`
		Keywords []string `yaml:"keywords"`
	} `yaml:"rules"`
}

// Classifier matches text against an ordered list of keyword rules.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	rules []rule
}

// ParseLexicon builds a classifier from a YAML rule document. Rule order in
// the document is match priority.
func ParseLexicon(data []byte) (*Classifier, error) {
	var lf lexiconFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}

	c := &Classifier{}
	for i, r := range lf.Rules {
		e := domain.Emotion(r.Emotion)
		if !e.Valid() {
			return nil, fmt.Errorf("lexicon rule %d: unknown emotion %q", i, r.Emotion)
		}
		if e == domain.EmotionNeutral {
			return nil, fmt.Errorf("lexicon rule %d: %s is the fallback and cannot have keywords", i, e)
		}
		kws := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			kw = fold(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			kws = append(kws, kw)
		}
		c.rules = append(c.rules, rule{emotion: e, keywords: kws})
	}
	return c, nil
}

var defaultClassifier = mustParse(defaultLexicon)

func mustParse(data []byte) *Classifier {
	c, err := ParseLexicon(data)
	if err != nil {
		panic("emotion: " + err.Error())
	}
	return c
}

// Default returns the classifier built from the embedded English and Telugu
// vocabulary.
func Default() *Classifier {
	return defaultClassifier
}

// Classify returns the emotion of the first rule with a keyword contained in
// text. Matching is substring based, so "sad" also matches inside "crusade".
// Text that matches nothing is Neutral.
func (c *Classifier) Classify(text string) Result {
	folded := fold(text)
	for _, r := range c.rules {
		for _, kw := range r.keywords {
			if strings.Contains(folded, kw) {
				return Result{Emotion: r.emotion, Glyph: r.emotion.Glyph()}
			}
		}
	}
	return Result{Emotion: domain.EmotionNeutral, Glyph: domain.EmotionNeutral.Glyph()}
}

// Classify runs the default classifier.
func Classify(text string) Result {
	return defaultClassifier.Classify(text)
}

// A cases.Caser carries state, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}
