// Package sentiment provides the pluggable scoring providers behind
// ports.SentimentProvider: a deterministic lexicon scorer and a model-backed
// scorer with an explicit load-once lifecycle and lexicon fallback.
package sentiment

import (
	"context"
	"strings"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
)

// Sentiment lexicons. Scores saturate: two sentiment matches or three
// support/desire matches reach 1.0.
var (
	positiveTerms = []string{
		"love", "amazing", "incredible", "great", "perfect", "best", "awesome",
		"fantastic", "brilliant", "excellent", "wonderful", "beautiful", "stunning",
	}

	negativeTerms = []string{
		"hate", "awful", "terrible", "worst", "cringe", "disgusting", "bad",
		"horrible", "disappointing", "boring", "stupid", "ridiculous",
	}

	supportTerms = []string{
		"iconic", "legend", "queen", "king", "goat", "no notes", "we love", "mother",
		"slayed", "ate", "served", "perfection", "flawless", "immaculate",
	}

	desireTerms = []string{
		"can't wait", "need them back", "renew", "sequel", "bring back", "give us",
		"season", "more of", "we need", "petition", "manifesting", "please give",
	}
)

const (
	sentimentSaturation = 2.0
	lexiconSaturation   = 3.0
)

// Lexicon is the deterministic fallback scorer. It needs no loading and is
// safe for concurrent use.
type Lexicon struct{}

// NewLexicon returns the lexicon-based provider.
func NewLexicon() *Lexicon {
	return &Lexicon{}
}

// Load is a no-op; the lexicons are compiled in.
func (l *Lexicon) Load(context.Context) error {
	return nil
}

// Score computes a sentiment triple summing to 1 plus support/desire scores
// from substring lexicon matches.
func (l *Lexicon) Score(_ context.Context, text string) (domain.FeatureSet, error) {
	if text == "" {
		return domain.FeatureSet{Neu: 1}, nil
	}

	lower := strings.ToLower(text)

	fs := domain.FeatureSet{
		Support: saturate(countMatches(lower, supportTerms), lexiconSaturation),
		Desire:  saturate(countMatches(lower, desireTerms), lexiconSaturation),
	}

	pos := countMatches(lower, positiveTerms)
	neg := countMatches(lower, negativeTerms)

	if pos+neg == 0 {
		fs.Neu = 1

		return fs, nil
	}

	fs.Pos = saturate(pos, sentimentSaturation)
	fs.Neg = saturate(neg, sentimentSaturation)

	if neu := 1 - (fs.Pos + fs.Neg); neu > 0 {
		fs.Neu = neu
	}

	// Renormalize so the triple sums to exactly 1.
	total := fs.Pos + fs.Neg + fs.Neu
	fs.Pos /= total
	fs.Neg /= total
	fs.Neu /= total

	return fs, nil
}

func countMatches(lower string, terms []string) int {
	n := 0

	for _, term := range terms {
		if strings.Contains(lower, term) {
			n++
		}
	}

	return n
}

func saturate(count int, at float64) float64 {
	v := float64(count) / at
	if v > 1 {
		return 1
	}

	return v
}
