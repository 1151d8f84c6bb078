// Package drivers ranks the content items behind each entity's metric
// movement. Impact blends mention volume, engagement and signed sentiment,
// scaled by the source fame weight.
package drivers

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
	"github.com/nkotelnikov/fanpulse/internal/normalize"
	"github.com/nkotelnikov/fanpulse/internal/platform/config"
)

const (
	mentionImpact    = 10.0
	engagementImpact = 5.0
	sentimentSpread  = 0.5

	reasonTitleMax = 100
	reasonMax      = 200

	reasonMentionFloor  = 5
	reasonUpvoteFloor   = 100.0
	reasonSentimentEdge = 0.3
)

// Ranker builds ranked driver rows per entity.
type Ranker struct {
	weights *config.Weights
	topK    int
}

// NewRanker returns a driver ranker keeping the top K items per entity.
func NewRanker(weights *config.Weights, topK int) *Ranker {
	return &Ranker{weights: weights, topK: topK}
}

// Rank groups resolved mentions by originating item, scores each item's
// impact and emits dense ranks from 1 per entity. Output is ordered by
// entity id, then rank.
func (r *Ranker) Rank(mentions []domain.Mention, items map[string]*domain.ContentItem) []domain.Driver {
	type itemGroup struct {
		itemID   string
		mentions []domain.Mention
	}

	perEntity := make(map[string][]*itemGroup)
	groupIndex := make(map[string]*itemGroup)

	for _, m := range mentions {
		if m.EntityID == "" {
			continue
		}

		key := m.EntityID + "\x00" + m.ItemID

		g, ok := groupIndex[key]
		if !ok {
			g = &itemGroup{itemID: m.ItemID}
			groupIndex[key] = g
			perEntity[m.EntityID] = append(perEntity[m.EntityID], g)
		}

		g.mentions = append(g.mentions, m)
	}

	entityIDs := make([]string, 0, len(perEntity))
	for id := range perEntity {
		entityIDs = append(entityIDs, id)
	}

	sort.Strings(entityIDs)

	var out []domain.Driver

	for _, entityID := range entityIDs {
		groups := perEntity[entityID]

		type scored struct {
			itemID string
			impact float64
			reason string
		}

		impacts := make([]scored, 0, len(groups))

		for _, g := range groups {
			item, ok := items[g.itemID]
			if !ok {
				continue
			}

			impact, avgSentiment := r.impactScore(item, g.mentions)

			impacts = append(impacts, scored{
				itemID: g.itemID,
				impact: impact,
				reason: driverReason(item, len(g.mentions), avgSentiment),
			})
		}

		sort.SliceStable(impacts, func(i, j int) bool {
			return impacts[i].impact > impacts[j].impact
		})

		if len(impacts) > r.topK {
			impacts = impacts[:r.topK]
		}

		for rank, s := range impacts {
			out = append(out, domain.Driver{
				EntityID:    entityID,
				Rank:        rank + 1,
				ItemID:      s.itemID,
				ImpactScore: s.impact,
				Reason:      s.reason,
			})
		}
	}

	return out
}

// impactScore returns the item's impact and average signed sentiment.
// The sentiment multiplier is bounded to [0.5, 1.5].
func (r *Ranker) impactScore(item *domain.ContentItem, mentions []domain.Mention) (float64, float64) {
	var engagement float64
	for _, v := range item.Engagement {
		engagement += math.Max(0, v)
	}

	engagementScore := math.Log1p(engagement)

	var totalSentiment float64
	for _, m := range mentions {
		totalSentiment += m.Features.Pos - m.Features.Neg
	}

	avgSentiment := totalSentiment / math.Max(1, float64(len(mentions)))

	multiplier := 1 + sentimentSpread*avgSentiment
	if multiplier < 1-sentimentSpread {
		multiplier = 1 - sentimentSpread
	} else if multiplier > 1+sentimentSpread {
		multiplier = 1 + sentimentSpread
	}

	impact := (float64(len(mentions))*mentionImpact + engagementScore*engagementImpact) *
		multiplier * r.weights.Fame(item.Source)

	return impact, avgSentiment
}

func driverReason(item *domain.ContentItem, mentionCount int, avgSentiment float64) string {
	title := normalize.Truncate(item.Title, reasonTitleMax)

	var parts []string

	if mentionCount > reasonMentionFloor {
		parts = append(parts, fmt.Sprintf("%d mentions", mentionCount))
	}

	if score := item.Engagement["score"]; score > reasonUpvoteFloor {
		parts = append(parts, fmt.Sprintf("%.0f upvotes", score))
	}

	switch {
	case avgSentiment > reasonSentimentEdge:
		parts = append(parts, "positive sentiment")
	case avgSentiment < -reasonSentimentEdge:
		parts = append(parts, "negative sentiment")
	}

	var reason string
	if len(parts) > 0 {
		reason = fmt.Sprintf("%s (%s)", title, strings.Join(parts, ", "))
	} else {
		reason = fmt.Sprintf("%s from %s", title, strings.ToLower(string(item.Source)))
	}

	return normalize.Truncate(reason, reasonMax)
}
