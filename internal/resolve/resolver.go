package resolve

import (
	"sort"
	"strings"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
	"github.com/nkotelnikov/fanpulse/internal/normalize"
)

const unresolvedContextMax = 280

// resolution is the outcome of scoring one surface occurrence.
type resolution struct {
	entityID   string
	confidence float64
	trace      *domain.ResolveTrace
	unresolved *domain.UnresolvedMention
}

// resolveSurface scores the candidate set for one surface and applies the
// confidence/margin gate. A nil candidate set yields an immediate
// "no_candidates" unresolved record.
func (e *Engine) resolveSurface(
	surface string,
	item *domain.ContentItem,
	doc *domain.Document,
	sentIdx int,
	sentences []string,
	candidates []domain.CatalogEntity,
	resolvedInItem map[string]struct{},
) resolution {
	sentence := sentences[sentIdx]
	context := queueContext(item, sentence)

	if len(candidates) == 0 {
		return resolution{
			unresolved: &domain.UnresolvedMention{
				ItemID:      item.ID,
				DocID:       doc.ID,
				SentenceIdx: sentIdx,
				Surface:     surface,
				Context:     context,
				Reason:      domain.UnresolvedNoCandidates,
			},
		}
	}

	sc := &scoreContext{
		item:           item,
		sentence:       sentence,
		neighbors:      neighborSentences(sentences, sentIdx),
		resolvedInItem: resolvedInItem,
	}

	scored := make([]domain.CandidateScore, 0, len(candidates))

	for _, cand := range candidates {
		score, breakdown := e.scorer.Score(cand, sc)
		scored = append(scored, domain.CandidateScore{
			EntityID: cand.ID,
			Score:    score,
			Features: breakdown,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	top := scored[0]

	second := 0.0
	if len(scored) > 1 {
		second = scored[1].Score
	}

	margin := top.Score - second
	confidence := clip01(top.Score)

	if confidence >= e.cfg.ResolveMinConfidence && margin >= e.cfg.ResolveMinMargin {
		return resolution{
			entityID:   top.EntityID,
			confidence: confidence,
			trace: &domain.ResolveTrace{
				Confidence: confidence,
				Margin:     margin,
				Candidates: scored,
			},
		}
	}

	return resolution{
		confidence: confidence,
		unresolved: &domain.UnresolvedMention{
			ItemID:      item.ID,
			DocID:       doc.ID,
			SentenceIdx: sentIdx,
			Surface:     surface,
			Context:     context,
			Reason:      domain.UnresolvedAmbiguous,
			Candidates:  scored,
		},
	}
}

func neighborSentences(sentences []string, idx int) []string {
	var neighbors []string

	if idx-1 >= 0 {
		neighbors = append(neighbors, sentences[idx-1])
	}

	if idx+1 < len(sentences) {
		neighbors = append(neighbors, sentences[idx+1])
	}

	return neighbors
}

func queueContext(item *domain.ContentItem, sentence string) string {
	parts := []string{item.Title, item.Description, sentence}

	return normalize.Truncate(strings.TrimSpace(strings.Join(parts, " ")), unresolvedContextMax)
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}

	if v > 1 {
		return 1
	}

	return v
}
