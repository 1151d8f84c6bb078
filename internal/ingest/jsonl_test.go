package ingest

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
)

type fakeItems struct {
	saved   []*domain.ContentItem
	failure error
}

func (f *fakeItems) SaveItem(_ context.Context, item *domain.ContentItem) error {
	if f.failure != nil {
		return f.failure
	}

	f.saved = append(f.saved, item)

	return nil
}

func (f *fakeItems) GetItemsForWindow(context.Context, time.Time, time.Time) ([]domain.ContentItem, error) {
	return nil, nil
}

func TestImport(t *testing.T) {
	repo := &fakeItems{}
	im := New(repo, zerolog.Nop())

	input := strings.Join([]string{
		`{"id": "r1", "source": "reddit", "published_at": "2025-03-04T10:00:00Z", "title": "Thread", "engagement": {"score": 42}}`,
		``,
		`{"source": "NEWS", "published_at": "Tue, 04 Mar 2025 09:00:00 GMT", "body": "Recap text."}`,
		`{"id": "x1", "source": "mastodon"}`,
	}, "\n")

	n, err := im.Import(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.Len(t, repo.saved, 3)

	first := repo.saved[0]
	assert.Equal(t, "r1", first.ID)
	assert.Equal(t, domain.SourceReddit, first.Source)
	assert.Equal(t, time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC), first.PublishedAt)
	assert.Equal(t, 42.0, first.Engagement["score"])

	second := repo.saved[1]
	assert.Equal(t, domain.SourceNews, second.Source)
	assert.True(t, strings.HasPrefix(second.ID, "item_"), "generated id: %s", second.ID)
	assert.Equal(t, time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC), second.PublishedAt)

	// Unknown sources fold to UNKNOWN instead of failing the import.
	assert.Equal(t, domain.SourceUnknown, repo.saved[2].Source)
}

func TestImportBadLineAborts(t *testing.T) {
	repo := &fakeItems{}
	im := New(repo, zerolog.Nop())

	input := `{"id": "ok", "source": "news"}
not json`

	n, err := im.Import(context.Background(), strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Equal(t, 1, n)
}

func TestImportBadTimestamp(t *testing.T) {
	im := New(&fakeItems{}, zerolog.Nop())

	_, err := im.Import(context.Background(), strings.NewReader(`{"source": "news", "published_at": "not a date"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "published_at")
}

func TestImportFileMissing(t *testing.T) {
	im := New(&fakeItems{}, zerolog.Nop())

	_, err := im.ImportFile(context.Background(), "/nonexistent/items.jsonl")
	assert.Error(t, err)
}
