package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
)

// SaveItem inserts or updates one content item.
func (db *DB) SaveItem(ctx context.Context, item *domain.ContentItem) error {
	if _, err := db.Pool.Exec(ctx, `
		INSERT INTO source_items (id, source, url, published_at, title, description, body, engagement)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE
		SET source = EXCLUDED.source,
			url = EXCLUDED.url,
			published_at = EXCLUDED.published_at,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			body = EXCLUDED.body,
			engagement = EXCLUDED.engagement,
			updated_at = NOW()
	`, item.ID, string(item.Source), toText(item.URL), toTimestamptz(item.PublishedAt),
		toText(item.Title), toText(item.Description), toText(item.Body), item.Engagement); err != nil {
		return fmt.Errorf("save item: %w", err)
	}

	return nil
}

// GetItemsForWindow returns items published inside [start, end), ordered by
// published_at then id so run input order is stable.
func (db *DB) GetItemsForWindow(ctx context.Context, start, end time.Time) ([]domain.ContentItem, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, source, url, published_at, title, description, body, engagement
		FROM source_items
		WHERE published_at >= $1 AND published_at < $2
		ORDER BY published_at, id
	`, toTimestamptz(start), toTimestamptz(end))
	if err != nil {
		return nil, fmt.Errorf("get items for window: %w", err)
	}
	defer rows.Close()

	var items []domain.ContentItem

	for rows.Next() {
		var (
			item                   domain.ContentItem
			source                 string
			url, title, desc, body pgtype.Text
			publishedAt            pgtype.Timestamptz
		)

		if err := rows.Scan(&item.ID, &source, &url, &publishedAt, &title, &desc, &body, &item.Engagement); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}

		item.Source = domain.Source(source)
		item.URL = fromText(url)
		item.PublishedAt = fromTimestamptz(publishedAt)
		item.Title = fromText(title)
		item.Description = fromText(desc)
		item.Body = fromText(body)

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}

	return items, nil
}
