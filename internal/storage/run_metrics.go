package db

import (
	"context"
	"fmt"

	"github.com/nkotelnikov/fanpulse/internal/core/ports"
)

// UpsertRunMetrics writes the resolution counters for one run. Counter
// columns are flattened for querying; rollups ride along as jsonb.
func (db *DB) UpsertRunMetrics(ctx context.Context, runID string, rec *ports.RunMetricsRecord) error {
	if _, err := db.Pool.Exec(ctx, `
		INSERT INTO run_metrics (
			run_id, sentences, explicit_total, explicit_resolved, explicit_unresolved,
			implicit_attributed, implicit_ignored_ambiguous, unresolved_rate,
			implicit_to_explicit_ratio, source_counts, unresolved_top, timings_ms
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (run_id) DO UPDATE
		SET sentences = EXCLUDED.sentences,
			explicit_total = EXCLUDED.explicit_total,
			explicit_resolved = EXCLUDED.explicit_resolved,
			explicit_unresolved = EXCLUDED.explicit_unresolved,
			implicit_attributed = EXCLUDED.implicit_attributed,
			implicit_ignored_ambiguous = EXCLUDED.implicit_ignored_ambiguous,
			unresolved_rate = EXCLUDED.unresolved_rate,
			implicit_to_explicit_ratio = EXCLUDED.implicit_to_explicit_ratio,
			source_counts = EXCLUDED.source_counts,
			unresolved_top = EXCLUDED.unresolved_top,
			timings_ms = EXCLUDED.timings_ms
	`, runID,
		toInt4(rec.Counters.Sentences),
		toInt4(rec.Counters.ExplicitTotal),
		toInt4(rec.Counters.ExplicitResolved),
		toInt4(rec.Counters.ExplicitUnresolved),
		toInt4(rec.Counters.ImplicitAttributed),
		toInt4(rec.Counters.ImplicitIgnoredAmbiguous),
		rec.Counters.UnresolvedRate,
		rec.Counters.ImplicitToExplicitRatio,
		rec.SourceCounts,
		rec.UnresolvedTop,
		rec.TimingsMS); err != nil {
		return fmt.Errorf("upsert run metrics: %w", err)
	}

	return nil
}
