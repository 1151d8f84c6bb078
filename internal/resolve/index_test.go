package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
)

func indexFixture() *AliasIndex {
	return NewAliasIndex([]domain.CatalogEntity{
		{
			ID:            "wren-show",
			CanonicalName: "Wren",
			Aliases:       []string{"Wren Files", "the wren files"},
			Type:          domain.EntityShow,
		},
		{
			ID:            "wren-person",
			CanonicalName: "Wren",
			Type:          domain.EntityPerson,
		},
		{
			ID:            "mars-hollow",
			CanonicalName: "Mars Hollow",
			Type:          domain.EntityFranchise,
		},
	})
}

func TestFindMentionsWordBoundaries(t *testing.T) {
	idx := indexFixture()

	tests := []struct {
		name     string
		sentence string
		surfaces []string
	}{
		{
			name:     "plain match",
			sentence: "Wren is back.",
			surfaces: []string{"Wren"},
		},
		{
			name:     "no match inside a word",
			sentence: "The wrench slipped.",
			surfaces: nil,
		},
		{
			name:     "longest alias wins",
			sentence: "Wren Files returns tonight.",
			surfaces: []string{"Wren Files"},
		},
		{
			name:     "case insensitive, original casing kept",
			sentence: "I binged MARS HOLLOW twice.",
			surfaces: []string{"MARS HOLLOW"},
		},
		{
			name:     "punctuation boundary",
			sentence: "Loved Wren, hated the ending.",
			surfaces: []string{"Wren"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := idx.FindMentions(tt.sentence)

			var surfaces []string
			for _, m := range matches {
				surfaces = append(surfaces, m.Surface)
			}

			assert.Equal(t, tt.surfaces, surfaces)
		})
	}
}

func TestFindMentionsSpans(t *testing.T) {
	idx := indexFixture()

	matches := idx.FindMentions("Mars Hollow and Wren clashed.")
	require.Len(t, matches, 2)

	assert.Equal(t, "Mars Hollow", matches[0].Surface)
	assert.Equal(t, domain.Span{Start: 0, End: 11}, matches[0].Span)

	assert.Equal(t, "Wren", matches[1].Surface)
	assert.Equal(t, domain.Span{Start: 16, End: 20}, matches[1].Span)
}

func TestFindMentionsFoldedSurface(t *testing.T) {
	idx := NewAliasIndex([]domain.CatalogEntity{
		{ID: "anna", CanonicalName: "Anna Weiß", Type: domain.EntityPerson},
	})

	// The alias key is the folded "anna weiss"; a plain lowercase of the
	// sentence would never reach it.
	matches := idx.FindMentions("Anna Weiß stole the scene.")
	require.Len(t, matches, 1)

	assert.Equal(t, "Anna Weiß", matches[0].Surface)
	assert.Equal(t, domain.Span{Start: 0, End: 10}, matches[0].Span)

	require.Len(t, idx.Candidates(matches[0].Surface, 7), 1)

	// Folded spellings in the text resolve to the same entity.
	folded := idx.FindMentions("ANNA WEISS was everywhere.")
	require.Len(t, folded, 1)
	assert.Equal(t, "ANNA WEISS", folded[0].Surface)
}

func TestCandidatesSharedAlias(t *testing.T) {
	idx := indexFixture()

	cands := idx.Candidates("wren", 7)
	require.Len(t, cands, 2)
	assert.Equal(t, "wren-show", cands[0].ID)
	assert.Equal(t, "wren-person", cands[1].ID)

	capped := idx.Candidates("Wren", 1)
	require.Len(t, capped, 1)
	assert.Equal(t, "wren-show", capped[0].ID)

	assert.Empty(t, idx.Candidates("nobody", 7))
}

func TestEmptyIndex(t *testing.T) {
	idx := NewAliasIndex(nil)

	assert.True(t, idx.Empty())
	assert.Empty(t, idx.FindMentions("Anything at all."))
}
