// Package aggregate turns the run's resolved mentions into per-entity raw
// daily statistics and derives the published axes from them. Both steps are
// pure: identical inputs produce identical outputs.
package aggregate

import (
	"math"
	"sort"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
	"github.com/nkotelnikov/fanpulse/internal/platform/config"
)

// Confidence score components.
const (
	sampleSizeMax     = 40.0
	sampleSizeScale   = 10.0
	diversityMax      = 30.0
	diversityFullAt   = 5.0
	engagementMax     = 30.0
	engagementScale   = 5.0
	confidenceCeiling = 100.0

	extremeSentiment       = 0.6
	engagementShare        = 0.5
	engagementAttentionCut = 0.5
)

// Aggregator groups resolved mentions per entity and computes raw
// statistics: counts, source diversity, the weighted sentiment triple,
// attention, polarization and confidence.
type Aggregator struct {
	cfg     *config.Config
	weights *config.Weights
}

// New returns a daily aggregator.
func New(cfg *config.Config, weights *config.Weights) *Aggregator {
	return &Aggregator{cfg: cfg, weights: weights}
}

// Aggregate computes one raw metrics row per entity with at least one
// resolved mention. The full mention set must be materialized first; there
// is no partial aggregation. Output is ordered by entity id.
func (a *Aggregator) Aggregate(
	mentions []domain.Mention,
	items map[string]*domain.ContentItem,
) []domain.EntityDailyMetrics {
	byEntity := make(map[string][]domain.Mention)

	for _, m := range mentions {
		if m.EntityID == "" {
			continue
		}

		byEntity[m.EntityID] = append(byEntity[m.EntityID], m)
	}

	entityIDs := make([]string, 0, len(byEntity))
	for id := range byEntity {
		entityIDs = append(entityIDs, id)
	}

	sort.Strings(entityIDs)

	out := make([]domain.EntityDailyMetrics, 0, len(entityIDs))
	for _, id := range entityIDs {
		out = append(out, a.aggregateEntity(id, byEntity[id], items))
	}

	return out
}

func (a *Aggregator) aggregateEntity(
	entityID string,
	mentions []domain.Mention,
	items map[string]*domain.ContentItem,
) domain.EntityDailyMetrics {
	m := domain.EntityDailyMetrics{EntityID: entityID}

	sources := make(map[domain.Source]struct{})

	var weightedPos, weightedNeg, weightedNeu, totalWeight float64

	var engagementAttention, totalQuality float64

	extreme := 0

	for i := range mentions {
		mention := &mentions[i]

		if mention.Implicit {
			m.ImplicitCount++
		} else {
			m.ExplicitCount++
		}

		src := domain.SourceUnknown

		item := items[mention.ItemID]
		if item != nil {
			src = item.Source
			sources[src] = struct{}{}
		}

		// Sentiment: base mention weight scaled by the source love weight,
		// then weight-averaged below.
		w := mention.Weight * a.weights.Love(src)
		weightedPos += mention.Features.Pos * w
		weightedNeg += mention.Features.Neg * w
		weightedNeu += mention.Features.Neu * w
		totalWeight += w

		if mention.Features.Pos > extremeSentiment || mention.Features.Neg > extremeSentiment {
			extreme++
		}

		if item != nil {
			norm := NormalizerFor(src)
			engagementAttention += norm.Attention(item.Engagement) * a.weights.Fame(src)
			totalQuality += norm.Quality(item.Engagement)
		}
	}

	m.SourcesDistinct = len(sources)

	if totalWeight > 0 {
		m.SentimentPos = weightedPos / totalWeight
		m.SentimentNeg = weightedNeg / totalWeight
		m.SentimentNeu = weightedNeu / totalWeight
	} else {
		m.SentimentNeu = 1
	}

	// Attention: mention volume plus engagement at half weight, then a final
	// log1p to keep the scale bounded.
	base := float64(m.ExplicitCount) + float64(m.ImplicitCount)*a.cfg.ImplicitWeight
	m.Attention = math.Log1p(math.Max(0, base+engagementAttention*engagementAttentionCut))

	m.Polarization = float64(extreme) / math.Max(1, float64(len(mentions)))

	m.Confidence = confidence(m.ExplicitCount, m.SourcesDistinct, totalQuality)

	return m
}

// confidence blends sample size, source diversity and engagement quality
// into a 0-100 score.
func confidence(explicitCount, sourcesDistinct int, totalQuality float64) float64 {
	sample := math.Min(sampleSizeMax, sampleSizeMax*math.Log1p(float64(explicitCount))/sampleSizeScale)
	diversity := math.Min(diversityMax, diversityMax*float64(sourcesDistinct)/diversityFullAt)

	ratio := math.Max(0, totalQuality/math.Max(1, float64(explicitCount)))
	engagement := math.Min(engagementMax, engagementMax*math.Log1p(ratio)/engagementScale)

	return math.Min(confidenceCeiling, sample+diversity+engagement)
}
