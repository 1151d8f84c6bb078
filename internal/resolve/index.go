// Package resolve implements the two-pass mention resolution engine:
// alias scanning and scored disambiguation of explicit mentions (pass A),
// followed by bounded-window pronoun attribution (pass B). Resolution within
// one item is strictly sequential; the alias index is immutable for a run
// and safe for concurrent readers.
package resolve

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
	"github.com/nkotelnikov/fanpulse/internal/normalize"
)

// AliasIndex maps normalized surface forms to candidate entities. Collisions
// are expected: a single alias may refer to several catalog entities.
type AliasIndex struct {
	byAlias map[string][]string
	byID    map[string]domain.CatalogEntity

	// aliases sorted by descending length then lexicographically, so scans
	// prefer the longest surface at a position and stay deterministic.
	aliases []string
}

// NewAliasIndex builds the surface-form index from a catalog snapshot.
// The canonical name counts as an alias of its own entity.
func NewAliasIndex(catalog []domain.CatalogEntity) *AliasIndex {
	idx := &AliasIndex{
		byAlias: make(map[string][]string),
		byID:    make(map[string]domain.CatalogEntity, len(catalog)),
	}

	for _, e := range catalog {
		idx.byID[e.ID] = e

		for _, alias := range append([]string{e.CanonicalName}, e.Aliases...) {
			key := normalize.Surface(alias)
			if key == "" {
				continue
			}

			if !contains(idx.byAlias[key], e.ID) {
				idx.byAlias[key] = append(idx.byAlias[key], e.ID)
			}
		}
	}

	idx.aliases = make([]string, 0, len(idx.byAlias))
	for alias := range idx.byAlias {
		idx.aliases = append(idx.aliases, alias)
	}

	sort.Slice(idx.aliases, func(i, j int) bool {
		if len(idx.aliases[i]) != len(idx.aliases[j]) {
			return len(idx.aliases[i]) > len(idx.aliases[j])
		}

		return idx.aliases[i] < idx.aliases[j]
	})

	return idx
}

// Empty reports whether the index has no surface forms.
func (idx *AliasIndex) Empty() bool {
	return len(idx.byAlias) == 0
}

// Entity returns the catalog entity for an id.
func (idx *AliasIndex) Entity(id string) (domain.CatalogEntity, bool) {
	e, ok := idx.byID[id]

	return e, ok
}

// Candidates returns the catalog entities sharing a surface form, capped at
// limit. The empty slice means the surface is unknown to the catalog.
func (idx *AliasIndex) Candidates(surface string, limit int) []domain.CatalogEntity {
	ids := idx.byAlias[normalize.Surface(surface)]
	if len(ids) > limit {
		ids = ids[:limit]
	}

	cands := make([]domain.CatalogEntity, 0, len(ids))
	for _, id := range ids {
		cands = append(cands, idx.byID[id])
	}

	return cands
}

// Match is one alias occurrence found in a sentence.
type Match struct {
	Surface string
	Span    domain.Span
}

// FindMentions scans a sentence for alias occurrences on word boundaries.
// The scan text carries the same NFKC case fold as the index keys, so
// fold-only-equal surfaces still match. Longer aliases win at a shared start
// position; spans never overlap.
func (idx *AliasIndex) FindMentions(sentence string) []Match {
	scan := newScanText(sentence)

	var found []Match

	for _, alias := range idx.aliases {
		pos := indexWord(scan.folded, alias)
		if pos < 0 {
			continue
		}

		start, end := scan.span(pos, len(alias))

		found = append(found, Match{
			Surface: sentence[start:end],
			Span:    domain.Span{Start: start, End: end},
		})
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].Span.Start != found[j].Span.Start {
			return found[i].Span.Start < found[j].Span.Start
		}

		return found[i].Span.End > found[j].Span.End
	})

	// Drop matches nested in or overlapping an earlier, longer one.
	out := found[:0]
	lastEnd := -1

	for _, m := range found {
		if m.Span.Start < lastEnd {
			continue
		}

		out = append(out, m)
		lastEnd = m.Span.End
	}

	return out
}

// scanText is the case-folded form of a sentence plus a byte map back to the
// original, so match spans survive folds that change rune widths.
type scanText struct {
	folded string
	starts []int
	ends   []int
}

func newScanText(s string) scanText {
	var b strings.Builder

	b.Grow(len(s))

	starts := make([]int, 0, len(s))
	ends := make([]int, 0, len(s))

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		f := normalize.FoldRune(r)

		for j := 0; j < len(f); j++ {
			starts = append(starts, i)
			ends = append(ends, i+size)
		}

		b.WriteString(f)
		i += size
	}

	return scanText{folded: b.String(), starts: starts, ends: ends}
}

// span maps a folded byte range back to original sentence offsets.
func (t scanText) span(pos, length int) (int, int) {
	return t.starts[pos], t.ends[pos+length-1]
}

// indexWord finds alias in s at a word boundary, or -1.
func indexWord(s, alias string) int {
	for from := 0; from < len(s); {
		pos := strings.Index(s[from:], alias)
		if pos < 0 {
			return -1
		}

		pos += from
		if boundedAt(s, pos, len(alias)) {
			return pos
		}

		from = pos + 1
	}

	return -1
}

func boundedAt(s string, pos, length int) bool {
	if pos > 0 && isWordByte(s[pos-1]) {
		return false
	}

	end := pos + length
	if end < len(s) && isWordByte(s[end]) {
		return false
	}

	return true
}

func isWordByte(b byte) bool {
	return b >= 0x80 || unicode.IsLetter(rune(b)) || unicode.IsDigit(rune(b))
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}

	return false
}
