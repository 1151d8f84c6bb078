package db

import (
	"context"
	"fmt"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
)

// ReplaceQueue swaps the resolve-queue payload for a run. Examples ride
// along as jsonb; the queue is read by humans, not joined against.
func (db *DB) ReplaceQueue(ctx context.Context, runID string, groups []domain.QueueGroup) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace queue: %w", err)
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM resolve_queue WHERE run_id = $1`, runID); err != nil {
		return fmt.Errorf("delete resolve queue: %w", err)
	}

	for pos, g := range groups {
		if _, err := tx.Exec(ctx, `
			INSERT INTO resolve_queue (run_id, position, surface, mention_count, impact, examples)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, runID, toInt4(pos), SanitizeUTF8(g.Surface), toInt4(g.Count), g.Impact, g.Examples); err != nil {
			return fmt.Errorf("insert queue group: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace queue: %w", err)
	}

	return nil
}

// GetQueueByRun returns a run's resolve queue in stored order.
func (db *DB) GetQueueByRun(ctx context.Context, runID string) ([]domain.QueueGroup, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT surface, mention_count, impact, examples
		FROM resolve_queue
		WHERE run_id = $1
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("get queue by run: %w", err)
	}
	defer rows.Close()

	var groups []domain.QueueGroup

	for rows.Next() {
		var g domain.QueueGroup

		if err := rows.Scan(&g.Surface, &g.Count, &g.Impact, &g.Examples); err != nil {
			return nil, fmt.Errorf("scan queue group: %w", err)
		}

		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate queue groups: %w", err)
	}

	return groups, nil
}
