package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// UpsertBaseline writes one weekly baseline row.
func (db *DB) UpsertBaseline(ctx context.Context, entityID string, weekStart time.Time, baselineFame, mentionVolume float64) error {
	if _, err := db.Pool.Exec(ctx, `
		INSERT INTO entity_weekly_baseline (entity_id, week_start, baseline_fame, mention_volume)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (entity_id, week_start) DO UPDATE
		SET baseline_fame = EXCLUDED.baseline_fame,
			mention_volume = EXCLUDED.mention_volume,
			updated_at = NOW()
	`, entityID, toTimestamptz(weekStart), baselineFame, mentionVolume); err != nil {
		return fmt.Errorf("upsert baseline: %w", err)
	}

	return nil
}

// BaselineFame returns the most recent baseline at or before weekStart.
// Entities with no baseline yet read as 0.
func (db *DB) BaselineFame(ctx context.Context, entityID string, weekStart time.Time) (float64, error) {
	var fame float64

	err := db.Pool.QueryRow(ctx, `
		SELECT baseline_fame
		FROM entity_weekly_baseline
		WHERE entity_id = $1 AND week_start <= $2
		ORDER BY week_start DESC
		LIMIT 1
	`, entityID, toTimestamptz(weekStart)).Scan(&fame)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}

	if err != nil {
		return 0, fmt.Errorf("get baseline fame: %w", err)
	}

	return fame, nil
}
