// Package catalog assembles the active entity set the resolver matches
// against: a pinned seed file merged with entities stored in Postgres.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
	coreerrors "github.com/nkotelnikov/fanpulse/internal/core/errors"
	"github.com/nkotelnikov/fanpulse/internal/core/ports"
)

const (
	pinnedPrior = 1.0
	storedPrior = 0.5
)

// pinnedEntity is the JSON shape of one seed file entry.
type pinnedEntity struct {
	ID            string            `json:"id"`
	CanonicalName string            `json:"canonical_name"`
	Type          string            `json:"type"`
	Aliases       []string          `json:"aliases"`
	ContextHints  []string          `json:"context_hints"`
	PriorWeight   float64           `json:"prior_weight"`
	ExternalIDs   map[string]string `json:"external_ids"`
}

// Catalog loads and merges entity definitions.
type Catalog struct {
	entities ports.EntityRepository
	logger   zerolog.Logger
}

// New returns a catalog backed by the given entity repository.
func New(entities ports.EntityRepository, logger zerolog.Logger) *Catalog {
	return &Catalog{
		entities: entities,
		logger:   logger.With().Str("component", "catalog").Logger(),
	}
}

// LoadPinned reads the pinned seed file. Pinned entities default to the
// maximum prior weight unless the file overrides it.
func LoadPinned(path string) ([]domain.CatalogEntity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pinned entities: %w", err)
	}

	var raw []pinnedEntity
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse pinned entities: %w", err)
	}

	out := make([]domain.CatalogEntity, 0, len(raw))

	for _, p := range raw {
		if p.ID == "" || p.CanonicalName == "" {
			return nil, fmt.Errorf("pinned entity %q: %w", p.CanonicalName, coreerrors.ErrInvalidConfig)
		}

		prior := p.PriorWeight
		if prior <= 0 {
			prior = pinnedPrior
		}

		out = append(out, domain.CatalogEntity{
			ID:            p.ID,
			CanonicalName: p.CanonicalName,
			Type:          domain.EntityType(p.Type),
			Aliases:       p.Aliases,
			ContextHints:  p.ContextHints,
			PriorWeight:   prior,
			ExternalIDs:   p.ExternalIDs,
			Pinned:        true,
		})
	}

	return out, nil
}

// Active returns the merged entity set: stored entities overlaid with
// pinned ones. A pinned entity wins on id collision, keeping its higher
// prior and seed aliases. Output is sorted by id.
func (c *Catalog) Active(ctx context.Context, pinnedPath string) ([]domain.CatalogEntity, error) {
	stored, err := c.entities.GetActiveEntities(ctx)
	if err != nil {
		return nil, fmt.Errorf("get active entities: %w", err)
	}

	merged := make(map[string]domain.CatalogEntity, len(stored))

	for _, e := range stored {
		if e.PriorWeight <= 0 {
			e.PriorWeight = storedPrior
		}

		merged[e.ID] = e
	}

	if pinnedPath != "" {
		pinned, err := LoadPinned(pinnedPath)
		if err != nil {
			return nil, err
		}

		for _, p := range pinned {
			if existing, ok := merged[p.ID]; ok {
				p.Aliases = mergeAliases(p.Aliases, existing.Aliases)
			}

			merged[p.ID] = p
		}
	}

	if len(merged) == 0 {
		c.logger.Warn().Msg("catalog is empty, every explicit pass will find zero mentions")

		return nil, nil
	}

	out := make([]domain.CatalogEntity, 0, len(merged))
	for _, e := range merged {
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	c.logger.Debug().Int("entities", len(out)).Msg("catalog assembled")

	return out, nil
}

// Sync upserts pinned seed entities into storage so downstream queries
// see them even outside a pipeline run.
func (c *Catalog) Sync(ctx context.Context, pinnedPath string) (int, error) {
	pinned, err := LoadPinned(pinnedPath)
	if err != nil {
		return 0, err
	}

	for _, p := range pinned {
		if err := c.entities.UpsertEntity(ctx, p); err != nil {
			return 0, fmt.Errorf("upsert entity %s: %w", p.ID, err)
		}
	}

	c.logger.Info().Int("entities", len(pinned)).Msg("pinned entities synced")

	return len(pinned), nil
}

func mergeAliases(primary, extra []string) []string {
	seen := make(map[string]struct{}, len(primary))
	out := make([]string, 0, len(primary)+len(extra))

	for _, a := range primary {
		if _, dup := seen[a]; dup {
			continue
		}

		seen[a] = struct{}{}
		out = append(out, a)
	}

	for _, a := range extra {
		if _, dup := seen[a]; dup {
			continue
		}

		seen[a] = struct{}{}
		out = append(out, a)
	}

	return out
}
