// Package ingest imports normalized content items from JSONL exports
// produced by the collection jobs.
package ingest

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
	"github.com/nkotelnikov/fanpulse/internal/core/ports"
)

// maxLineBytes bounds a single JSONL record; long-form transcripts from
// video sources can run well past bufio's default.
const maxLineBytes = 4 << 20

// rawItem is the wire shape of one JSONL line. published_at is freeform
// because exports mix RFC 3339, RFC 1123 and bare dates.
type rawItem struct {
	ID          string             `json:"id"`
	Source      string             `json:"source"`
	URL         string             `json:"url"`
	PublishedAt string             `json:"published_at"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Body        string             `json:"body"`
	Engagement  map[string]float64 `json:"engagement"`
}

// Importer streams JSONL files into item storage.
type Importer struct {
	items  ports.ItemRepository
	logger zerolog.Logger
}

// New returns a JSONL importer.
func New(items ports.ItemRepository, logger zerolog.Logger) *Importer {
	return &Importer{
		items:  items,
		logger: logger.With().Str("component", "ingest").Logger(),
	}
}

// ImportFile imports every record in the file at path and returns the
// number of items saved. Bad lines abort the import with a line number.
func (im *Importer) ImportFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open items file: %w", err)
	}
	defer f.Close()

	n, err := im.Import(ctx, f)
	if err != nil {
		return n, fmt.Errorf("import %s: %w", path, err)
	}

	im.logger.Info().Str("path", path).Int("items", n).Msg("items imported")

	return n, nil
}

// Import reads JSONL records from r and saves each as a content item.
func (im *Importer) Import(ctx context.Context, r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var (
		saved int
		line  int
	)

	for scanner.Scan() {
		line++

		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}

		item, err := parseItem(raw)
		if err != nil {
			return saved, fmt.Errorf("line %d: %w", line, err)
		}

		if err := im.items.SaveItem(ctx, item); err != nil {
			return saved, fmt.Errorf("line %d: save item %s: %w", line, item.ID, err)
		}

		saved++
	}

	if err := scanner.Err(); err != nil {
		return saved, fmt.Errorf("read items: %w", err)
	}

	return saved, nil
}

func parseItem(line string) (*domain.ContentItem, error) {
	var raw rawItem
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return nil, fmt.Errorf("parse item: %w", err)
	}

	id := raw.ID
	if id == "" {
		id = "item_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	}

	publishedAt := time.Now().UTC()

	if raw.PublishedAt != "" {
		ts, err := dateparse.ParseAny(raw.PublishedAt)
		if err != nil {
			return nil, fmt.Errorf("parse published_at %q: %w", raw.PublishedAt, err)
		}

		publishedAt = ts.UTC()
	}

	return &domain.ContentItem{
		ID:          id,
		Source:      domain.ParseSource(raw.Source),
		URL:         raw.URL,
		PublishedAt: publishedAt,
		Title:       raw.Title,
		Description: raw.Description,
		Body:        raw.Body,
		Engagement:  raw.Engagement,
	}, nil
}
