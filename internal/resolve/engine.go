package resolve

import (
	"github.com/rs/zerolog"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
	"github.com/nkotelnikov/fanpulse/internal/normalize"
	"github.com/nkotelnikov/fanpulse/internal/platform/config"
)

const explicitWeight = 1.0

// Engine runs both resolution passes over one item at a time. The engine is
// stateless across items and safe for concurrent use: all mutable state
// lives in per-call locals.
type Engine struct {
	index  *AliasIndex
	scorer *Scorer
	cfg    *config.Config
	logger *zerolog.Logger
}

// NewEngine builds a resolution engine over an immutable alias index.
func NewEngine(index *AliasIndex, scorer *Scorer, cfg *config.Config, logger *zerolog.Logger) *Engine {
	return &Engine{
		index:  index,
		scorer: scorer,
		cfg:    cfg,
		logger: logger,
	}
}

// ItemResult is the complete resolution output for one item.
type ItemResult struct {
	Mentions   []domain.Mention
	Unresolved []domain.UnresolvedMention
	Metrics    domain.RunMetrics
}

// ProcessItem resolves one item: pass A over every sentence, then pass B
// over the sentences pass A left without an explicit resolution. Sentence
// order is significant and processing is strictly sequential.
func (e *Engine) ProcessItem(item *domain.ContentItem, doc *domain.Document) ItemResult {
	var res ItemResult

	sentences := normalize.SplitSentences(doc.Text)
	res.Metrics.Sentences = len(sentences)

	if e.index.Empty() {
		return res
	}

	explicitBySent := e.explicitPass(item, doc, sentences, &res)
	e.implicitPass(item, doc, sentences, explicitBySent, &res)

	return res
}

// explicitPass resolves alias matches sentence by sentence and returns the
// resolved entity ids per sentence index for pass B.
func (e *Engine) explicitPass(
	item *domain.ContentItem,
	doc *domain.Document,
	sentences []string,
	res *ItemResult,
) map[int][]string {
	explicitBySent := make(map[int][]string)
	resolvedInItem := make(map[string]struct{})

	for i, sentence := range sentences {
		for _, match := range e.index.FindMentions(sentence) {
			res.Metrics.ExplicitTotal++

			candidates := e.index.Candidates(match.Surface, e.cfg.MaxCandidates)
			r := e.resolveSurface(match.Surface, item, doc, i, sentences, candidates, resolvedInItem)

			if r.unresolved != nil {
				res.Metrics.CountUnresolved(item.Source)
				res.Unresolved = append(res.Unresolved, *r.unresolved)

				continue
			}

			res.Metrics.ExplicitResolved++

			resolvedInItem[r.entityID] = struct{}{}
			explicitBySent[i] = append(explicitBySent[i], r.entityID)

			entity, _ := e.index.Entity(r.entityID)

			res.Mentions = append(res.Mentions, domain.Mention{
				ItemID:      item.ID,
				DocID:       doc.ID,
				SentenceIdx: i,
				Span:        match.Span,
				Surface:     match.Surface,
				Context:     sentence,
				EntityID:    r.entityID,
				EntityType:  entity.Type,
				Confidence:  r.confidence,
				Implicit:    false,
				Weight:      explicitWeight,
				Trace:       r.trace,
			})
		}
	}

	return explicitBySent
}

// implicitPass attributes pronoun-bearing, mention-free sentences to the
// unambiguous recent focus entity. A sentence with an explicit resolution is
// never eligible; competing same-class entities in the window force
// abstention.
func (e *Engine) implicitPass(
	item *domain.ContentItem,
	doc *domain.Document,
	sentences []string,
	explicitBySent map[int][]string,
	res *ItemResult,
) {
	tracker := newFocusTracker(e.cfg.FocusWindowSentences)

	for i, sentence := range sentences {
		explicitIDs := explicitBySent[i]
		tracker.observe(explicitIDs)

		if len(explicitIDs) > 0 {
			continue
		}

		if !normalize.HasPronoun(sentence) {
			continue
		}

		primary, ok := tracker.primary()
		if !ok {
			res.Metrics.ImplicitIgnoredAmbiguous++

			continue
		}

		if !e.unambiguous(primary, tracker.focusSet()) {
			res.Metrics.ImplicitIgnoredAmbiguous++

			continue
		}

		res.Metrics.ImplicitAttributed++

		entity, _ := e.index.Entity(primary)

		res.Mentions = append(res.Mentions, domain.Mention{
			ItemID:      item.ID,
			DocID:       doc.ID,
			SentenceIdx: i,
			Span:        domain.Span{Start: 0, End: len(sentence)},
			Surface:     domain.ImplicitSurface,
			Context:     sentence,
			EntityID:    primary,
			EntityType:  entity.Type,
			Confidence:  1.0,
			Implicit:    true,
			Weight:      e.cfg.ImplicitWeight,
		})
	}
}
