package db

import (
	"context"
	"fmt"
	"time"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
)

// GetActiveEntities returns all active catalog entities ordered by id.
func (db *DB) GetActiveEntities(ctx context.Context) ([]domain.CatalogEntity, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, canonical_name, type, aliases, context_hints, prior_weight, external_ids, pinned
		FROM entities
		WHERE active
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("get active entities: %w", err)
	}
	defer rows.Close()

	var entities []domain.CatalogEntity

	for rows.Next() {
		var e domain.CatalogEntity

		var entityType string

		if err := rows.Scan(
			&e.ID, &e.CanonicalName, &entityType, &e.Aliases,
			&e.ContextHints, &e.PriorWeight, &e.ExternalIDs, &e.Pinned,
		); err != nil {
			return nil, fmt.Errorf("scan entity: %w", err)
		}

		e.Type = domain.EntityType(entityType)
		entities = append(entities, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entities: %w", err)
	}

	return entities, nil
}

// UpsertEntity inserts or updates one catalog entity.
func (db *DB) UpsertEntity(ctx context.Context, e domain.CatalogEntity) error {
	if _, err := db.Pool.Exec(ctx, `
		INSERT INTO entities (id, canonical_name, type, aliases, context_hints, prior_weight, external_ids, pinned, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
		ON CONFLICT (id) DO UPDATE
		SET canonical_name = EXCLUDED.canonical_name,
			type = EXCLUDED.type,
			aliases = EXCLUDED.aliases,
			context_hints = EXCLUDED.context_hints,
			prior_weight = EXCLUDED.prior_weight,
			external_ids = EXCLUDED.external_ids,
			pinned = EXCLUDED.pinned,
			active = TRUE,
			updated_at = NOW()
	`, e.ID, SanitizeUTF8(e.CanonicalName), string(e.Type), e.Aliases,
		e.ContextHints, e.PriorWeight, e.ExternalIDs, e.Pinned); err != nil {
		return fmt.Errorf("upsert entity: %w", err)
	}

	return nil
}

// CountMentionsSince returns the entity's mention volume across successful
// runs whose window ended inside (since, until]. Volume is the sum of
// explicit and implicit mention counts from the daily metric rows.
func (db *DB) CountMentionsSince(ctx context.Context, entityID string, since, until time.Time) (int, error) {
	var count int

	if err := db.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(m.explicit_count + m.implicit_count), 0)
		FROM entity_daily_metrics m
		JOIN runs r ON r.id = m.run_id
		WHERE m.entity_id = $1
			AND r.status = 'SUCCESS'
			AND r.window_end > $2
			AND r.window_end <= $3
	`, entityID, toTimestamptz(since), toTimestamptz(until)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count mentions since: %w", err)
	}

	return count, nil
}
