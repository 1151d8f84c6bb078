// Package queue builds the impact-ranked human-review queue from unresolved
// mentions. Groups share a normalized surface; impact is the engagement-
// weighted sum of contributing item weights.
package queue

import (
	"math"
	"sort"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
	"github.com/nkotelnikov/fanpulse/internal/normalize"
	"github.com/nkotelnikov/fanpulse/internal/platform/config"
)

const engagementImpactFactor = 0.2

// Builder aggregates unresolved mentions for curation.
type Builder struct {
	weights      *config.Weights
	exampleLimit int
}

// NewBuilder returns a queue builder using the configured per-source base
// weights.
func NewBuilder(weights *config.Weights, exampleLimit int) *Builder {
	return &Builder{
		weights:      weights,
		exampleLimit: exampleLimit,
	}
}

// ItemWeight is the impact contribution of one item:
// source_base_weight × (1 + 0.2·ln(1+total_engagement)).
func (b *Builder) ItemWeight(item *domain.ContentItem) float64 {
	var engagement float64
	for _, v := range item.Engagement {
		engagement += v
	}

	if engagement < 0 {
		engagement = 0
	}

	return b.weights.QueueBase(item.Source) * (1 + engagementImpactFactor*math.Log1p(engagement))
}

// Build groups unresolved mentions by normalized surface and sorts groups by
// descending impact. Equal-impact ties keep input order: the sort is stable
// and groups are created in first-appearance order.
func (b *Builder) Build(unresolved []domain.UnresolvedMention, items map[string]*domain.ContentItem) []domain.QueueGroup {
	groups := make(map[string]*domain.QueueGroup)

	var order []string

	for _, u := range unresolved {
		item, ok := items[u.ItemID]
		if !ok {
			continue
		}

		key := normalize.Surface(u.Surface)

		g, ok := groups[key]
		if !ok {
			g = &domain.QueueGroup{Surface: u.Surface}
			groups[key] = g

			order = append(order, key)
		}

		g.Count++
		g.Impact += b.ItemWeight(item)

		if len(g.Examples) < b.exampleLimit {
			g.Examples = append(g.Examples, domain.QueueExample{
				ItemID:     u.ItemID,
				Source:     item.Source,
				Context:    u.Context,
				Candidates: u.Candidates,
			})
		}
	}

	out := make([]domain.QueueGroup, 0, len(order))
	for _, key := range order {
		out = append(out, *groups[key])
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Impact > out[j].Impact
	})

	return out
}
