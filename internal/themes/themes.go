// Package themes clusters mention contexts into per-entity conversation
// themes using embedding similarity.
package themes

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
	"github.com/nkotelnikov/fanpulse/internal/core/ports"
	"github.com/nkotelnikov/fanpulse/internal/normalize"
	"github.com/nkotelnikov/fanpulse/internal/platform/config"
)

const labelMax = 80

// Clusterer groups mention contexts into themes with greedy
// nearest-centroid assignment.
type Clusterer struct {
	embedder      ports.EmbeddingProvider
	maxPerEntity  int
	similarity    float64
	contextsLimit int
	logger        zerolog.Logger
}

// NewClusterer builds a theme clusterer from config.
func NewClusterer(embedder ports.EmbeddingProvider, cfg *config.Config, logger zerolog.Logger) *Clusterer {
	return &Clusterer{
		embedder:      embedder,
		maxPerEntity:  cfg.ThemeMaxPerEntity,
		similarity:    cfg.ThemeSimilarity,
		contextsLimit: cfg.ThemeContextsLimit,
		logger:        logger.With().Str("component", "themes").Logger(),
	}
}

type cluster struct {
	sum     []float32
	itemIDs []string
	label   string
	size    int
}

func (c *cluster) centroid() []float32 {
	out := make([]float32, len(c.sum))
	for i, v := range c.sum {
		out[i] = v / float32(c.size)
	}

	return out
}

func (c *cluster) add(vec []float32, itemID string) {
	for i, v := range vec {
		c.sum[i] += v
	}

	c.size++
	c.itemIDs = appendUnique(c.itemIDs, itemID)
}

type sample struct {
	text   string
	itemID string
}

// Build clusters resolved mention contexts per entity. Entities are
// processed in id order so output and embedding calls are deterministic.
func (c *Clusterer) Build(ctx context.Context, runID string, mentions []domain.Mention) ([]domain.Theme, error) {
	perEntity := make(map[string][]sample)
	seen := make(map[string]struct{})

	for _, m := range mentions {
		if m.EntityID == "" || m.Context == "" {
			continue
		}

		key := m.EntityID + "\x00" + normalize.Surface(m.Context)
		if _, dup := seen[key]; dup {
			continue
		}

		seen[key] = struct{}{}

		if len(perEntity[m.EntityID]) >= c.contextsLimit {
			continue
		}

		perEntity[m.EntityID] = append(perEntity[m.EntityID], sample{
			text:   normalize.Truncate(m.Context, 500),
			itemID: m.ItemID,
		})
	}

	entityIDs := make([]string, 0, len(perEntity))
	for id := range perEntity {
		entityIDs = append(entityIDs, id)
	}

	sort.Strings(entityIDs)

	var out []domain.Theme

	for _, entityID := range entityIDs {
		samples := perEntity[entityID]

		texts := make([]string, len(samples))
		for i, s := range samples {
			texts[i] = s.text
		}

		vecs, err := c.embedder.Embed(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed contexts for %s: %w", entityID, err)
		}

		clusters := c.clusterVectors(samples, vecs)

		sort.SliceStable(clusters, func(i, j int) bool {
			return clusters[i].size > clusters[j].size
		})

		if len(clusters) > c.maxPerEntity {
			clusters = clusters[:c.maxPerEntity]
		}

		for _, cl := range clusters {
			out = append(out, domain.Theme{
				EntityID: entityID,
				RunID:    runID,
				Label:    cl.label,
				ItemIDs:  cl.itemIDs,
				Centroid: cl.centroid(),
			})
		}
	}

	c.logger.Debug().Int("themes", len(out)).Int("entities", len(entityIDs)).Msg("themes built")

	return out, nil
}

func (c *Clusterer) clusterVectors(samples []sample, vecs [][]float32) []*cluster {
	var clusters []*cluster

	for i, vec := range vecs {
		if len(vec) == 0 {
			continue
		}

		best := -1
		bestSim := c.similarity

		for j, cl := range clusters {
			if sim := cosine(vec, cl.centroid()); sim >= bestSim {
				best = j
				bestSim = sim
			}
		}

		if best >= 0 {
			clusters[best].add(vec, samples[i].itemID)
			continue
		}

		sum := make([]float32, len(vec))
		copy(sum, vec)

		clusters = append(clusters, &cluster{
			sum:     sum,
			itemIDs: []string{samples[i].itemID},
			label:   normalize.Truncate(samples[i].text, labelMax),
			size:    1,
		})
	}

	return clusters
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}

	if na == 0 || nb == 0 {
		return 0
	}

	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}

	return append(list, v)
}
