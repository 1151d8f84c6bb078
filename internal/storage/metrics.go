package db

import (
	"context"
	"fmt"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
)

// UpsertEntityDailyMetrics writes one per-(entity, run) output row.
// Re-running a window overwrites the previous attempt's row.
func (db *DB) UpsertEntityDailyMetrics(ctx context.Context, m *domain.EntityDailyMetrics) error {
	if _, err := db.Pool.Exec(ctx, `
		INSERT INTO entity_daily_metrics (
			entity_id, run_id, fame, love, momentum, polarization, confidence,
			attention, baseline_fame, sentiment_pos, sentiment_neg, sentiment_neu,
			explicit_count, implicit_count, sources_distinct
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (entity_id, run_id) DO UPDATE
		SET fame = EXCLUDED.fame,
			love = EXCLUDED.love,
			momentum = EXCLUDED.momentum,
			polarization = EXCLUDED.polarization,
			confidence = EXCLUDED.confidence,
			attention = EXCLUDED.attention,
			baseline_fame = EXCLUDED.baseline_fame,
			sentiment_pos = EXCLUDED.sentiment_pos,
			sentiment_neg = EXCLUDED.sentiment_neg,
			sentiment_neu = EXCLUDED.sentiment_neu,
			explicit_count = EXCLUDED.explicit_count,
			implicit_count = EXCLUDED.implicit_count,
			sources_distinct = EXCLUDED.sources_distinct
	`, m.EntityID, m.RunID, m.Fame, m.Love, m.Momentum, m.Polarization, m.Confidence,
		m.Attention, m.BaselineFame, m.SentimentPos, m.SentimentNeg, m.SentimentNeu,
		toInt4(m.ExplicitCount), toInt4(m.ImplicitCount), toInt4(m.SourcesDistinct)); err != nil {
		return fmt.Errorf("upsert entity daily metrics: %w", err)
	}

	return nil
}

// GetMetricsByRun returns all metric rows for a run ordered by entity id.
func (db *DB) GetMetricsByRun(ctx context.Context, runID string) ([]domain.EntityDailyMetrics, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT entity_id, run_id, fame, love, momentum, polarization, confidence,
			attention, baseline_fame, sentiment_pos, sentiment_neg, sentiment_neu,
			explicit_count, implicit_count, sources_distinct
		FROM entity_daily_metrics
		WHERE run_id = $1
		ORDER BY entity_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("get metrics by run: %w", err)
	}
	defer rows.Close()

	var metrics []domain.EntityDailyMetrics

	for rows.Next() {
		var m domain.EntityDailyMetrics

		if err := rows.Scan(
			&m.EntityID, &m.RunID, &m.Fame, &m.Love, &m.Momentum, &m.Polarization, &m.Confidence,
			&m.Attention, &m.BaselineFame, &m.SentimentPos, &m.SentimentNeg, &m.SentimentNeu,
			&m.ExplicitCount, &m.ImplicitCount, &m.SourcesDistinct,
		); err != nil {
			return nil, fmt.Errorf("scan metrics row: %w", err)
		}

		metrics = append(metrics, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metrics rows: %w", err)
	}

	return metrics, nil
}
