package resolve

// focusTracker holds the two bounded structures behind pronoun attribution:
// a sliding window of the last N sentences' resolved entity ids, and a
// recency-ordered (most-recent-first, de-duplicated) list spanning the item.
type focusTracker struct {
	n       int
	window  [][]string
	recency []string
}

func newFocusTracker(windowSentences int) *focusTracker {
	return &focusTracker{n: windowSentences}
}

// observe advances the tracker by one sentence.
func (f *focusTracker) observe(entityIDs []string) {
	f.window = append(f.window, entityIDs)
	if len(f.window) > f.n {
		f.window = f.window[1:]
	}

	for _, id := range entityIDs {
		for i, existing := range f.recency {
			if existing == id {
				f.recency = append(f.recency[:i], f.recency[i+1:]...)

				break
			}
		}

		f.recency = append([]string{id}, f.recency...)
	}
}

// focusSet returns the distinct entity ids in the current window, in first
// appearance order.
func (f *focusTracker) focusSet() []string {
	seen := make(map[string]struct{})

	var set []string

	for _, ids := range f.window {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}

			seen[id] = struct{}{}

			set = append(set, id)
		}
	}

	return set
}

// primary picks the most recently mentioned entity that is still inside the
// focus window. Returns false when the window holds nothing.
func (f *focusTracker) primary() (string, bool) {
	set := f.focusSet()
	if len(set) == 0 {
		return "", false
	}

	inWindow := make(map[string]struct{}, len(set))
	for _, id := range set {
		inWindow[id] = struct{}{}
	}

	for _, id := range f.recency {
		if _, ok := inWindow[id]; ok {
			return id, true
		}
	}

	return set[len(set)-1], true
}

// unambiguous reports whether no other focus-window entity shares the
// primary's coarse referent class. Competitors force abstention.
func (e *Engine) unambiguous(primary string, focusSet []string) bool {
	primaryEntity, ok := e.index.Entity(primary)
	if !ok {
		return false
	}

	class := primaryEntity.Type.Referent()

	for _, id := range focusSet {
		if id == primary {
			continue
		}

		if other, ok := e.index.Entity(id); ok && other.Type.Referent() == class {
			return false
		}
	}

	return true
}
