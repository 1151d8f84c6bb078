package db

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
)

// ReplaceThemes swaps the theme set for a run. Centroids are stored as
// pgvector values so similar themes can be compared across runs.
func (db *DB) ReplaceThemes(ctx context.Context, runID string, themes []domain.Theme) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace themes: %w", err)
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM themes WHERE run_id = $1`, runID); err != nil {
		return fmt.Errorf("delete themes: %w", err)
	}

	for _, t := range themes {
		if _, err := tx.Exec(ctx, `
			INSERT INTO themes (run_id, entity_id, label, item_ids, centroid)
			VALUES ($1, $2, $3, $4, $5)
		`, runID, t.EntityID, toText(t.Label), t.ItemIDs, pgvector.NewVector(t.Centroid)); err != nil {
			return fmt.Errorf("insert theme: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace themes: %w", err)
	}

	return nil
}
