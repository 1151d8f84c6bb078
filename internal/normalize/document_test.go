package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
)

func TestDocument(t *testing.T) {
	published := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	item := domain.ContentItem{
		ID:          "item-1",
		Source:      domain.SourceNews,
		PublishedAt: published,
		Title:       "  Finale   recap ",
		Description: "<p>The <b>finale</b> aired.</p>",
		Body:        "Fans were not ready.",
	}

	doc, ok := Document(item)
	require.True(t, ok)

	assert.Equal(t, "item-1", doc.ItemID)
	assert.Equal(t, published, doc.Timestamp)
	assert.Equal(t, "Finale recap", doc.Title)
	assert.Equal(t, "The finale aired.", doc.Caption)
	assert.Equal(t, "Finale recap The finale aired. Fans were not ready.", doc.Text)
	assert.NotEmpty(t, doc.SimHash)
	assert.Contains(t, doc.ID, "doc_")
}

func TestDocumentSkipsEmptyItems(t *testing.T) {
	_, ok := Document(domain.ContentItem{ID: "item-2", Title: "hi"})
	assert.False(t, ok)

	_, ok = Document(domain.ContentItem{ID: "item-3"})
	assert.False(t, ok)
}

func TestDocumentSameTextSameHash(t *testing.T) {
	a, ok := Document(domain.ContentItem{ID: "a", Body: "An identical syndicated article body."})
	require.True(t, ok)

	b, ok := Document(domain.ContentItem{ID: "b", Body: "An identical syndicated article body."})
	require.True(t, ok)

	assert.Equal(t, a.SimHash, b.SimHash)
	assert.NotEqual(t, a.ID, b.ID)
}
