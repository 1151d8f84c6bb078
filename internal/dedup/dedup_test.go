package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
)

func TestStrictDeduplicator(t *testing.T) {
	d := NewStrict()

	first := &domain.Document{ID: "doc_1", ItemID: "i1", SimHash: "abc"}
	copyOf := &domain.Document{ID: "doc_2", ItemID: "i2", SimHash: "abc"}
	other := &domain.Document{ID: "doc_3", ItemID: "i3", SimHash: "def"}

	dup, _ := d.IsDuplicate(first)
	assert.False(t, dup)

	dup, of := d.IsDuplicate(copyOf)
	assert.True(t, dup)
	assert.Equal(t, "i1", of)

	dup, _ = d.IsDuplicate(other)
	assert.False(t, dup)

	// Same document again still points at the first occurrence.
	dup, of = d.IsDuplicate(&domain.Document{ID: "doc_4", ItemID: "i4", SimHash: "abc"})
	assert.True(t, dup)
	assert.Equal(t, "i1", of)
}

func TestStrictDeduplicatorEmptyHash(t *testing.T) {
	d := NewStrict()

	dup, _ := d.IsDuplicate(&domain.Document{ID: "doc_1", ItemID: "i1"})
	assert.False(t, dup)

	dup, _ = d.IsDuplicate(&domain.Document{ID: "doc_2", ItemID: "i2"})
	assert.False(t, dup)
}
