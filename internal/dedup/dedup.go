// Package dedup suppresses near-identical content items within one run
// window. Cross-posted articles would otherwise double-count every mention
// they contain.
package dedup

import (
	"github.com/nkotelnikov/fanpulse/internal/core/domain"
)

// Deduplicator decides whether a normalized document duplicates one seen
// earlier in the same run. Check items in input order; the first occurrence
// always wins.
type Deduplicator interface {
	IsDuplicate(doc *domain.Document) (bool, string)
}

type strictDeduplicator struct {
	// seen maps content hash to the item that first produced it.
	seen map[string]string
}

// NewStrict returns a deduplicator matching on the exact content hash.
func NewStrict() Deduplicator {
	return &strictDeduplicator{seen: make(map[string]string)}
}

func (d *strictDeduplicator) IsDuplicate(doc *domain.Document) (bool, string) {
	if doc.SimHash == "" {
		return false, ""
	}

	if first, ok := d.seen[doc.SimHash]; ok {
		return true, first
	}

	d.seen[doc.SimHash] = doc.ItemID

	return false, ""
}
