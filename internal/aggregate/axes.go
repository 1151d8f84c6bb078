package aggregate

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
	"github.com/nkotelnikov/fanpulse/internal/core/ports"
	"github.com/nkotelnikov/fanpulse/internal/platform/config"
)

const (
	axisMin = 0.0
	axisMax = 100.0

	loveNeutral = 50.0
	loveSpread  = 50.0
)

// AxisComputer derives the published coordinates from raw statistics and the
// stored weekly baseline. Momentum is a weighted delta of fame and love
// against the immediately preceding run; entities with no prior run read 0.
type AxisComputer struct {
	cfg      *config.Config
	baseline ports.BaselineReader
}

// NewAxisComputer returns an axis computer reading baseline fame from the
// weekly baseline store.
func NewAxisComputer(cfg *config.Config, baseline ports.BaselineReader) *AxisComputer {
	return &AxisComputer{cfg: cfg, baseline: baseline}
}

// Compute fills fame, love, momentum, polarization and the normalized
// attention in place. previous maps entity id to the preceding run's metrics
// row; weekStart keys the baseline lookup.
func (c *AxisComputer) Compute(
	ctx context.Context,
	metrics []domain.EntityDailyMetrics,
	previous map[string]domain.EntityDailyMetrics,
	weekStart time.Time,
) ([]domain.EntityDailyMetrics, error) {
	out := make([]domain.EntityDailyMetrics, 0, len(metrics))

	for _, m := range metrics {
		baselineFame, err := c.baseline.BaselineFame(ctx, m.EntityID, weekStart)
		if err != nil {
			return nil, fmt.Errorf("read baseline fame for %s: %w", m.EntityID, err)
		}

		m.BaselineFame = baselineFame

		// Attention arrives log-scaled from aggregation; rescale to 0-100
		// against the fixed scale before mixing with the baseline.
		attnNorm := math.Min(axisMax, m.Attention/c.cfg.AttentionScale*axisMax)
		m.Attention = attnNorm

		m.Fame = clipAxis(c.cfg.FameBaselineWeight*baselineFame + c.cfg.FameAttentionWeight*attnNorm)
		m.Love = clipAxis(loveNeutral + loveSpread*(m.SentimentPos-m.SentimentNeg))
		m.Polarization = clipAxis(m.Polarization * axisMax)

		if prev, ok := previous[m.EntityID]; ok {
			m.Momentum = c.cfg.MomentumFameWeight*(m.Fame-prev.Fame) +
				c.cfg.MomentumLoveWeight*(m.Love-prev.Love)
		} else {
			m.Momentum = 0
		}

		out = append(out, m)
	}

	return out, nil
}

func clipAxis(v float64) float64 {
	if v < axisMin {
		return axisMin
	}

	if v > axisMax {
		return axisMax
	}

	return v
}
