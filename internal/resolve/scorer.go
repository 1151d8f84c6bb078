package resolve

import (
	"strings"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
	"github.com/nkotelnikov/fanpulse/internal/normalize"
	"github.com/nkotelnikov/fanpulse/internal/platform/config"
)

// Type-fit and source-trust constants.
const (
	typeFitDefault  = 0.5
	typeFitMatch    = 1.0
	typeFitMismatch = 0.3

	sourceTrustPrimary = 1.0
	sourceTrustOther   = 0.6
)

// Scorer scores disambiguation candidates against local context, co-mention,
// type-fit and source-trust signals. Weights are validated at startup.
type Scorer struct {
	wPrior     float64
	wContext   float64
	wComention float64
	wTypeFit   float64
	wSource    float64
}

// NewScorer returns a scorer with the configured signal weights.
func NewScorer(cfg *config.Config) *Scorer {
	return &Scorer{
		wPrior:     cfg.ScorerPriorWeight,
		wContext:   cfg.ScorerContextWeight,
		wComention: cfg.ScorerComentionWeight,
		wTypeFit:   cfg.ScorerTypeFitWeight,
		wSource:    cfg.ScorerSourceWeight,
	}
}

// scoreContext carries the per-sentence inputs to candidate scoring.
type scoreContext struct {
	item      *domain.ContentItem
	sentence  string
	neighbors []string

	// entity ids already resolved earlier in the same item
	resolvedInItem map[string]struct{}
}

// Score returns the weighted candidate score and its breakdown.
func (s *Scorer) Score(cand domain.CatalogEntity, sc *scoreContext) (float64, domain.ScoreBreakdown) {
	breakdown := domain.ScoreBreakdown{
		Prior:       cand.PriorWeight,
		Context:     s.contextOverlap(cand, sc),
		Comention:   0,
		TypeFit:     typeFit(cand.Type, sc.sentence),
		SourceTrust: sourceTrust(sc.item.Source),
	}

	if _, ok := sc.resolvedInItem[cand.ID]; ok {
		breakdown.Comention = 1
	}

	score := s.wPrior*breakdown.Prior +
		s.wContext*breakdown.Context +
		s.wComention*breakdown.Comention +
		s.wTypeFit*breakdown.TypeFit +
		s.wSource*breakdown.SourceTrust

	return score, breakdown
}

// contextOverlap is |local tokens ∩ hint tokens| / |hint tokens|, 0 when the
// candidate carries no hints. The local window is title + description +
// sentence + adjacent sentences.
func (s *Scorer) contextOverlap(cand domain.CatalogEntity, sc *scoreContext) float64 {
	if len(cand.ContextHints) == 0 {
		return 0
	}

	hintToks := normalize.TokenSet(strings.Join(cand.ContextHints, " "))
	if len(hintToks) == 0 {
		return 0
	}

	localParts := append([]string{sc.item.Title, sc.item.Description, sc.sentence}, sc.neighbors...)
	localToks := normalize.TokenSet(strings.Join(localParts, " "))

	overlap := 0

	for tok := range hintToks {
		if _, ok := localToks[tok]; ok {
			overlap++
		}
	}

	return float64(overlap) / float64(len(hintToks))
}

// typeFit applies lexical cue heuristics: episodic vocabulary favors titles,
// casting vocabulary favors people. Casting cues win when both are present.
func typeFit(t domain.EntityType, sentence string) float64 {
	s := strings.ToLower(sentence)
	fit := typeFitDefault

	if strings.Contains(s, "season") || strings.Contains(s, "episode") {
		if t == domain.EntityShow || t == domain.EntityFranchise {
			fit = typeFitMatch
		} else {
			fit = typeFitMismatch
		}
	}

	if strings.Contains(s, "starring") || strings.Contains(s, "cast") {
		if t == domain.EntityPerson || t == domain.EntityCharacter {
			fit = typeFitMatch
		} else {
			fit = typeFitMismatch
		}
	}

	return fit
}

func sourceTrust(src domain.Source) float64 {
	if src == domain.SourceEditorial {
		return sourceTrustPrimary
	}

	return sourceTrustOther
}
