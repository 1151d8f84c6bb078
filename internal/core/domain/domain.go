// Package domain defines the core types of the fanpulse signal engine:
// the entity catalog, normalized content, mentions produced by resolution,
// and the per-run outputs (daily metrics, drivers, resolve queue).
package domain

import (
	"strings"
	"time"
)

// EntityType classifies catalog entities.
type EntityType string

// Catalog entity types.
const (
	EntityPerson    EntityType = "PERSON"
	EntityShow      EntityType = "SHOW"
	EntityFilm      EntityType = "FILM"
	EntityFranchise EntityType = "FRANCHISE"
	EntityBrand     EntityType = "BRAND"
	EntityNetwork   EntityType = "NETWORK_STREAMER"
	EntityCharacter EntityType = "CHARACTER"
	EntityCouple    EntityType = "COUPLE"
)

// ReferentClass is the coarse class used for pronoun attribution. Two
// entities of the same class in the focus window make a pronoun ambiguous.
type ReferentClass string

// Coarse referent classes.
const (
	ReferentPerson ReferentClass = "PERSON"
	ReferentCouple ReferentClass = "COUPLE"
	ReferentTitle  ReferentClass = "TITLE"
	ReferentBrand  ReferentClass = "BRAND"
)

// Referent returns the coarse referent class for an entity type.
func (t EntityType) Referent() ReferentClass {
	switch t {
	case EntityPerson:
		return ReferentPerson
	case EntityCouple:
		return ReferentCouple
	case EntityShow, EntityFilm, EntityFranchise, EntityCharacter:
		return ReferentTitle
	default:
		return ReferentBrand
	}
}

// Source identifies where a content item came from.
type Source string

// Known content sources. SourceEditorial is the primary curated source and
// carries the highest trust and queue weight.
const (
	SourceEditorial Source = "EDITORIAL"
	SourceNews      Source = "NEWS"
	SourceReddit    Source = "REDDIT"
	SourceYouTube   Source = "YOUTUBE"
	SourceUnknown   Source = "UNKNOWN"
)

// ParseSource maps a free-form source tag to a known Source. Unrecognized
// tags fold to SourceUnknown rather than failing the item.
func ParseSource(s string) Source {
	switch Source(strings.ToUpper(strings.TrimSpace(s))) {
	case SourceEditorial:
		return SourceEditorial
	case SourceNews:
		return SourceNews
	case SourceReddit:
		return SourceReddit
	case SourceYouTube:
		return SourceYouTube
	default:
		return SourceUnknown
	}
}

// CatalogEntity is one entry of the entity catalog. The catalog is loaded
// once per run and is read-only for the duration of a run.
type CatalogEntity struct {
	ID            string
	CanonicalName string
	Type          EntityType
	Aliases       []string
	ContextHints  []string
	PriorWeight   float64
	ExternalIDs   map[string]string
	Pinned        bool
}

// ContentItem is a normalized input item tagged against a source.
type ContentItem struct {
	ID          string
	Source      Source
	URL         string
	PublishedAt time.Time
	Title       string
	Description string
	Body        string
	Engagement  map[string]float64
}

// Document is the cleaned, resolution-ready form of a ContentItem.
type Document struct {
	ID        string
	ItemID    string
	Timestamp time.Time
	Lang      string
	Title     string
	Caption   string
	Body      string
	Text      string
	SimHash   string
}

// Span is a character range within a sentence.
type Span struct {
	Start int
	End   int
}

// FeatureSet holds per-mention sentiment and lexicon features.
// Pos+Neg+Neu sum to 1.
type FeatureSet struct {
	Pos     float64
	Neg     float64
	Neu     float64
	Support float64
	Desire  float64
}

// ScoreBreakdown is the per-signal decomposition of a candidate score.
// Tagged for the jsonb examples column of the resolve queue.
type ScoreBreakdown struct {
	Prior       float64 `json:"prior"`
	Context     float64 `json:"context"`
	Comention   float64 `json:"comention"`
	TypeFit     float64 `json:"type_fit"`
	SourceTrust float64 `json:"source_trust"`
}

// CandidateScore is one scored disambiguation candidate.
type CandidateScore struct {
	EntityID string         `json:"entity_id"`
	Score    float64        `json:"score"`
	Features ScoreBreakdown `json:"features"`
}

// ResolveTrace records how a mention was resolved, for QA and the queue.
type ResolveTrace struct {
	Confidence float64
	Margin     float64
	Candidates []CandidateScore
}

// ImplicitSurface marks mentions attributed from a pronoun sentence rather
// than a surface match.
const ImplicitSurface = "__implicit_pronoun__"

// Mention is a resolved reference to a catalog entity inside a document.
// Implicit mentions carry a weight strictly below the explicit weight of 1.0.
type Mention struct {
	ItemID      string
	DocID       string
	SentenceIdx int
	Span        Span
	Surface     string
	Context     string
	EntityID    string
	EntityType  EntityType
	Confidence  float64
	Implicit    bool
	Weight      float64
	Features    FeatureSet
	Trace       *ResolveTrace
}

// Unresolved reason tags.
const (
	UnresolvedAmbiguous    = "ambiguous"
	UnresolvedNoCandidates = "no_candidates"
)

// UnresolvedMention is a surface that failed the confidence/margin gate.
// It never enters aggregation; it feeds the human resolve queue.
type UnresolvedMention struct {
	ItemID      string
	DocID       string
	SentenceIdx int
	Surface     string
	Context     string
	Reason      string
	Candidates  []CandidateScore
}

// RunMetrics holds resolution counters for one run. Per-item metrics are
// merged with Merge and ratios derived with Finalize.
type RunMetrics struct {
	Sentences                int
	ExplicitTotal            int
	ExplicitResolved         int
	ExplicitUnresolved       int
	ImplicitAttributed       int
	ImplicitIgnoredAmbiguous int
	UnresolvedBySource       map[Source]int

	UnresolvedRate          float64
	ImplicitToExplicitRatio float64
}

// CountUnresolved increments the unresolved counters for a source.
func (m *RunMetrics) CountUnresolved(src Source) {
	m.ExplicitUnresolved++

	if m.UnresolvedBySource == nil {
		m.UnresolvedBySource = make(map[Source]int)
	}

	m.UnresolvedBySource[src]++
}

// Merge adds the counters of other into m.
func (m *RunMetrics) Merge(other RunMetrics) {
	m.Sentences += other.Sentences
	m.ExplicitTotal += other.ExplicitTotal
	m.ExplicitResolved += other.ExplicitResolved
	m.ExplicitUnresolved += other.ExplicitUnresolved
	m.ImplicitAttributed += other.ImplicitAttributed
	m.ImplicitIgnoredAmbiguous += other.ImplicitIgnoredAmbiguous

	for src, n := range other.UnresolvedBySource {
		if m.UnresolvedBySource == nil {
			m.UnresolvedBySource = make(map[Source]int)
		}

		m.UnresolvedBySource[src] += n
	}
}

// Finalize computes derived ratios from the raw counters.
func (m *RunMetrics) Finalize() {
	denom := m.ExplicitTotal
	if denom < 1 {
		denom = 1
	}

	m.UnresolvedRate = float64(m.ExplicitUnresolved) / float64(denom)
	m.ImplicitToExplicitRatio = float64(m.ImplicitAttributed) / float64(denom)
}

// EntityDailyMetrics is the durable per-(entity, run) output row.
// Fame, Love, Polarization and Confidence are bounded to [0,100].
type EntityDailyMetrics struct {
	EntityID        string
	RunID           string
	Fame            float64
	Love            float64
	Momentum        float64
	Polarization    float64
	Confidence      float64
	Attention       float64
	BaselineFame    float64
	SentimentPos    float64
	SentimentNeg    float64
	SentimentNeu    float64
	ExplicitCount   int
	ImplicitCount   int
	SourcesDistinct int
}

// Driver is one ranked evidence item for an entity's metric movement.
type Driver struct {
	EntityID    string
	Rank        int
	ItemID      string
	ImpactScore float64
	Reason      string
}

// QueueExample is one retained context for a resolve-queue group.
type QueueExample struct {
	ItemID     string           `json:"item_id"`
	Source     Source           `json:"source"`
	Context    string           `json:"context"`
	Candidates []CandidateScore `json:"candidates,omitempty"`
}

// QueueGroup aggregates unresolved mentions that share a normalized surface.
type QueueGroup struct {
	Surface  string
	Count    int
	Impact   float64
	Examples []QueueExample
}

// Theme is a labeled cluster of driver contexts for an entity.
type Theme struct {
	EntityID string
	RunID    string
	Label    string
	ItemIDs  []string
	Centroid []float32
}

// RunStatus is the lifecycle state of a pipeline run.
type RunStatus string

// Run states. A run is atomic: partial outputs are never visible as SUCCESS.
const (
	RunRunning RunStatus = "RUNNING"
	RunSuccess RunStatus = "SUCCESS"
	RunFailed  RunStatus = "FAILED"
)

// Run is one execution of the daily pipeline over a window.
type Run struct {
	ID          string
	WindowStart time.Time
	WindowEnd   time.Time
	StartedAt   time.Time
	FinishedAt  time.Time
	Status      RunStatus
}
