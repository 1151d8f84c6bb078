// Package baseline maintains the slow-moving weekly fame floor per entity,
// derived from trailing mention volume.
package baseline

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/nkotelnikov/fanpulse/internal/core/ports"
	"github.com/nkotelnikov/fanpulse/internal/platform/config"
)

const baselineMax = 100.0

// Computer recomputes weekly baseline fame for every active entity.
type Computer struct {
	entities  ports.EntityRepository
	baselines ports.BaselineWriter
	lookback  time.Duration
	volumeCap float64
	logger    zerolog.Logger
}

// NewComputer builds a baseline computer from config.
func NewComputer(entities ports.EntityRepository, baselines ports.BaselineWriter, cfg *config.Config, logger zerolog.Logger) *Computer {
	return &Computer{
		entities:  entities,
		baselines: baselines,
		lookback:  time.Duration(cfg.BaselineLookbackDays) * 24 * time.Hour,
		volumeCap: float64(cfg.BaselineVolumeCap),
		logger:    logger.With().Str("component", "baseline").Logger(),
	}
}

// WeekStart truncates t to the Monday 00:00 UTC of its week.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()

	offset := (int(t.Weekday()) + 6) % 7

	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

	return day.AddDate(0, 0, -offset)
}

// Compute upserts a baseline row for each active entity for the week
// containing now. Volume maps to [0, 100] on a log scale so mid-tier
// entities are not drowned out by the biggest names.
func (c *Computer) Compute(ctx context.Context, now time.Time) error {
	entities, err := c.entities.GetActiveEntities(ctx)
	if err != nil {
		return fmt.Errorf("get active entities: %w", err)
	}

	weekStart := WeekStart(now)
	since := now.Add(-c.lookback)

	for _, e := range entities {
		count, err := c.entities.CountMentionsSince(ctx, e.ID, since, now)
		if err != nil {
			return fmt.Errorf("count mentions for %s: %w", e.ID, err)
		}

		fame := c.fameFromVolume(float64(count))

		if err := c.baselines.UpsertBaseline(ctx, e.ID, weekStart, fame, float64(count)); err != nil {
			return fmt.Errorf("upsert baseline for %s: %w", e.ID, err)
		}
	}

	c.logger.Info().
		Time("week_start", weekStart).
		Int("entities", len(entities)).
		Msg("weekly baselines recomputed")

	return nil
}

func (c *Computer) fameFromVolume(volume float64) float64 {
	if volume <= 0 || c.volumeCap <= 0 {
		return 0
	}

	fame := math.Log1p(volume) / math.Log1p(c.volumeCap) * baselineMax

	return math.Min(baselineMax, fame)
}
