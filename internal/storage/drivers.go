package db

import (
	"context"
	"fmt"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
)

// ReplaceDrivers swaps the driver set for a run in one transaction.
func (db *DB) ReplaceDrivers(ctx context.Context, runID string, drivers []domain.Driver) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace drivers: %w", err)
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM drivers WHERE run_id = $1`, runID); err != nil {
		return fmt.Errorf("delete drivers: %w", err)
	}

	for _, d := range drivers {
		if _, err := tx.Exec(ctx, `
			INSERT INTO drivers (run_id, entity_id, rank, item_id, impact_score, reason)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, runID, d.EntityID, toInt4(d.Rank), d.ItemID, d.ImpactScore, toText(d.Reason)); err != nil {
			return fmt.Errorf("insert driver: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace drivers: %w", err)
	}

	return nil
}

// GetDriversByRun returns a run's drivers ordered by entity then rank.
func (db *DB) GetDriversByRun(ctx context.Context, runID string) ([]domain.Driver, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT entity_id, rank, item_id, impact_score, reason
		FROM drivers
		WHERE run_id = $1
		ORDER BY entity_id, rank
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("get drivers by run: %w", err)
	}
	defer rows.Close()

	var drivers []domain.Driver

	for rows.Next() {
		var d domain.Driver

		if err := rows.Scan(&d.EntityID, &d.Rank, &d.ItemID, &d.ImpactScore, &d.Reason); err != nil {
			return nil, fmt.Errorf("scan driver: %w", err)
		}

		drivers = append(drivers, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drivers: %w", err)
	}

	return drivers, nil
}
