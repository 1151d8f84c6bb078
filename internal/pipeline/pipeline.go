// Package pipeline orchestrates the daily run: resolve, score, aggregate
// and persist, as one atomic unit per window.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nkotelnikov/fanpulse/internal/aggregate"
	"github.com/nkotelnikov/fanpulse/internal/baseline"
	"github.com/nkotelnikov/fanpulse/internal/catalog"
	"github.com/nkotelnikov/fanpulse/internal/core/domain"
	"github.com/nkotelnikov/fanpulse/internal/core/ports"
	"github.com/nkotelnikov/fanpulse/internal/dedup"
	"github.com/nkotelnikov/fanpulse/internal/drivers"
	"github.com/nkotelnikov/fanpulse/internal/normalize"
	"github.com/nkotelnikov/fanpulse/internal/platform/config"
	"github.com/nkotelnikov/fanpulse/internal/platform/observability"
	"github.com/nkotelnikov/fanpulse/internal/queue"
	"github.com/nkotelnikov/fanpulse/internal/resolve"
	"github.com/nkotelnikov/fanpulse/internal/themes"
)

const unresolvedTopLimit = 20

// Repos bundles the persistence ports the pipeline writes through.
type Repos struct {
	Items      ports.ItemRepository
	Runs       ports.RunRepository
	Metrics    ports.MetricsRepository
	Drivers    ports.DriverRepository
	Queue      ports.QueueRepository
	Themes     ports.ThemeRepository
	RunMetrics ports.RunMetricsRepository
	Baselines  ports.BaselineReader
}

// Pipeline runs the daily resolution and aggregation over one window.
type Pipeline struct {
	cfg       *config.Config
	weights   *config.Weights
	catalog   *catalog.Catalog
	repos     Repos
	sentiment ports.SentimentProvider
	themer    *themes.Clusterer
	logger    zerolog.Logger
}

// New assembles a pipeline. themer may be nil when themes are disabled.
func New(
	cfg *config.Config,
	weights *config.Weights,
	cat *catalog.Catalog,
	repos Repos,
	sentiment ports.SentimentProvider,
	themer *themes.Clusterer,
	logger zerolog.Logger,
) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		weights:   weights,
		catalog:   cat,
		repos:     repos,
		sentiment: sentiment,
		themer:    themer,
		logger:    logger.With().Str("component", "pipeline").Logger(),
	}
}

// Run executes the full pipeline for the daily window containing now.
// A run is atomic: on any stage failure the run is marked FAILED and its
// partial rows are never surfaced under a SUCCESS run.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (*domain.Run, error) {
	window, err := DailyWindow(now, p.cfg.WindowHour, p.cfg.WindowTimezone)
	if err != nil {
		return nil, err
	}

	if existing, err := p.repos.Runs.GetRunByWindow(ctx, window.Start, window.End); err == nil &&
		existing != nil && existing.Status == domain.RunSuccess {
		p.logger.Info().Str("run_id", existing.ID).Msg("window already has a successful run")
		return existing, nil
	}

	run := &domain.Run{
		ID:          "run_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16],
		WindowStart: window.Start,
		WindowEnd:   window.End,
		StartedAt:   time.Now().UTC(),
		Status:      domain.RunRunning,
	}

	if err := p.repos.Runs.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}

	observability.RunsStarted.Inc()
	started := time.Now()

	p.logger.Info().
		Str("run_id", run.ID).
		Time("window_start", window.Start).
		Time("window_end", window.End).
		Msg("run started")

	err = p.execute(ctx, run, window)

	finishedAt := time.Now().UTC()
	observability.RunDurationSeconds.Observe(time.Since(started).Seconds())

	if err != nil {
		observability.RunsFinished.WithLabelValues(string(domain.RunFailed)).Inc()

		if statusErr := p.repos.Runs.UpdateRunStatus(ctx, run.ID, domain.RunFailed, finishedAt); statusErr != nil {
			p.logger.Error().Err(statusErr).Str("run_id", run.ID).Msg("mark run failed")
		}

		return nil, fmt.Errorf("run %s: %w", run.ID, err)
	}

	if err := p.repos.Runs.UpdateRunStatus(ctx, run.ID, domain.RunSuccess, finishedAt); err != nil {
		return nil, fmt.Errorf("mark run success: %w", err)
	}

	observability.RunsFinished.WithLabelValues(string(domain.RunSuccess)).Inc()

	run.Status = domain.RunSuccess
	run.FinishedAt = finishedAt

	p.logger.Info().
		Str("run_id", run.ID).
		Dur("took", time.Since(started)).
		Msg("run finished")

	return run, nil
}

func (p *Pipeline) execute(ctx context.Context, run *domain.Run, window Window) error {
	timings := make(map[string]int64)

	stage := func(name string) func() {
		start := time.Now()

		return func() {
			took := time.Since(start)
			timings[name] = took.Milliseconds()
			observability.StageDurationSeconds.WithLabelValues(name).Observe(took.Seconds())
		}
	}

	done := stage("catalog")

	entities, err := p.catalog.Active(ctx, p.cfg.PinnedEntitiesPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	index := resolve.NewAliasIndex(entities)
	engine := resolve.NewEngine(index, resolve.NewScorer(p.cfg), p.cfg, &p.logger)

	done()
	done = stage("fetch")

	items, err := p.repos.Items.GetItemsForWindow(ctx, window.Start, window.End)
	if err != nil {
		return fmt.Errorf("get items for window: %w", err)
	}

	itemsByID := make(map[string]*domain.ContentItem, len(items))
	sourceCounts := make(map[domain.Source]int, 4)

	for i := range items {
		itemsByID[items[i].ID] = &items[i]
		sourceCounts[items[i].Source]++
		observability.ItemsProcessed.WithLabelValues(string(items[i].Source)).Inc()
	}

	done()
	done = stage("resolve")

	mentions, unresolved, counters := p.resolveItems(ctx, engine, items)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("resolve items: %w", err)
	}

	counters.Finalize()

	observability.MentionsResolved.WithLabelValues("explicit").Add(float64(counters.ExplicitResolved))
	observability.MentionsResolved.WithLabelValues("implicit").Add(float64(counters.ImplicitAttributed))

	for src, n := range counters.UnresolvedBySource {
		observability.MentionsUnresolved.WithLabelValues(string(src)).Add(float64(n))
	}

	done()
	done = stage("sentiment")

	if err := p.scoreSentiment(ctx, mentions); err != nil {
		return err
	}

	done()
	done = stage("aggregate")

	raw := aggregate.New(p.cfg, p.weights).Aggregate(mentions, itemsByID)

	previous, err := p.previousMetrics(ctx, window.Start)
	if err != nil {
		return err
	}

	axes := aggregate.NewAxisComputer(p.cfg, p.repos.Baselines)

	scored, err := axes.Compute(ctx, raw, previous, baseline.WeekStart(window.End))
	if err != nil {
		return fmt.Errorf("compute axes: %w", err)
	}

	for i := range scored {
		scored[i].RunID = run.ID
	}

	observability.EntitiesScored.Set(float64(len(scored)))

	done()
	done = stage("persist")

	for i := range scored {
		if err := p.repos.Metrics.UpsertEntityDailyMetrics(ctx, &scored[i]); err != nil {
			return fmt.Errorf("upsert metrics for %s: %w", scored[i].EntityID, err)
		}
	}

	ranked := drivers.NewRanker(p.weights, p.cfg.DriverTopK).Rank(mentions, itemsByID)

	if err := p.repos.Drivers.ReplaceDrivers(ctx, run.ID, ranked); err != nil {
		return fmt.Errorf("replace drivers: %w", err)
	}

	groups := queue.NewBuilder(p.weights, p.cfg.QueueExampleLimit).Build(unresolved, itemsByID)

	observability.ResolveQueueSize.Set(float64(len(groups)))

	if err := p.repos.Queue.ReplaceQueue(ctx, run.ID, groups); err != nil {
		return fmt.Errorf("replace resolve queue: %w", err)
	}

	done()

	if p.cfg.ThemesEnabled && p.themer != nil {
		done = stage("themes")

		// Themes are enrichment: an embedding outage must not fail the run.
		if built, err := p.themer.Build(ctx, run.ID, mentions); err != nil {
			p.logger.Warn().Err(err).Str("run_id", run.ID).Msg("theme build failed, run continues without themes")
		} else if err := p.repos.Themes.ReplaceThemes(ctx, run.ID, built); err != nil {
			return fmt.Errorf("replace themes: %w", err)
		}

		done()
	}

	record := &ports.RunMetricsRecord{
		Counters:      counters,
		SourceCounts:  sourceCounts,
		UnresolvedTop: topUnresolved(groups, unresolvedTopLimit),
		TimingsMS:     timings,
	}

	if err := p.repos.RunMetrics.UpsertRunMetrics(ctx, run.ID, record); err != nil {
		return fmt.Errorf("upsert run metrics: %w", err)
	}

	p.logger.Info().
		Str("run_id", run.ID).
		Int("items", len(items)).
		Int("mentions", len(mentions)).
		Int("unresolved_groups", len(groups)).
		Int("entities", len(scored)).
		Float64("unresolved_rate", counters.UnresolvedRate).
		Msg("pipeline stages complete")

	return nil
}

// resolveItems normalizes items sequentially so duplicate suppression is
// order-stable, then fans resolution out over a bounded worker pool.
// Per-item results land in slots indexed by input position, so the combined
// output does not depend on scheduling order.
func (p *Pipeline) resolveItems(
	ctx context.Context,
	engine *resolve.Engine,
	items []domain.ContentItem,
) ([]domain.Mention, []domain.UnresolvedMention, domain.RunMetrics) {
	type job struct {
		item *domain.ContentItem
		doc  *domain.Document
	}

	dd := dedup.NewStrict()
	jobList := make([]job, 0, len(items))

	for i := range items {
		doc, ok := normalize.Document(items[i])
		if !ok {
			continue
		}

		if dup, firstID := dd.IsDuplicate(doc); dup {
			p.logger.Debug().
				Str("item_id", items[i].ID).
				Str("duplicate_of", firstID).
				Msg("duplicate item skipped")

			continue
		}

		jobList = append(jobList, job{item: &items[i], doc: doc})
	}

	slots := make([]resolve.ItemResult, len(jobList))
	jobs := make(chan int)

	var wg sync.WaitGroup

	workers := p.cfg.ResolveWorkers
	if workers < 1 {
		workers = 1
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for idx := range jobs {
				slots[idx] = engine.ProcessItem(jobList[idx].item, jobList[idx].doc)
			}
		}()
	}

	for idx := range jobList {
		if ctx.Err() != nil {
			break
		}

		jobs <- idx
	}

	close(jobs)
	wg.Wait()

	var (
		mentions   []domain.Mention
		unresolved []domain.UnresolvedMention
		counters   domain.RunMetrics
	)

	for _, r := range slots {
		mentions = append(mentions, r.Mentions...)
		unresolved = append(unresolved, r.Unresolved...)
		counters.Merge(r.Metrics)
	}

	return mentions, unresolved, counters
}

// scoreSentiment fills mention feature sets from the sentence context.
// Scores are cached per distinct context so repeated sentences cost one
// provider call.
func (p *Pipeline) scoreSentiment(ctx context.Context, mentions []domain.Mention) error {
	if err := p.sentiment.Load(ctx); err != nil {
		return fmt.Errorf("load sentiment provider: %w", err)
	}

	cache := make(map[string]domain.FeatureSet)

	for i := range mentions {
		text := mentions[i].Context

		features, ok := cache[text]
		if !ok {
			var err error

			features, err = p.sentiment.Score(ctx, text)
			if err != nil {
				return fmt.Errorf("score sentiment: %w", err)
			}

			cache[text] = features
		}

		mentions[i].Features = features
	}

	return nil
}

func (p *Pipeline) previousMetrics(ctx context.Context, windowStart time.Time) (map[string]domain.EntityDailyMetrics, error) {
	prevRun, err := p.repos.Runs.GetLatestSuccessBefore(ctx, windowStart)
	if err != nil {
		return nil, fmt.Errorf("get previous run: %w", err)
	}

	if prevRun == nil {
		return nil, nil
	}

	rows, err := p.repos.Metrics.GetMetricsByRun(ctx, prevRun.ID)
	if err != nil {
		return nil, fmt.Errorf("get previous metrics: %w", err)
	}

	previous := make(map[string]domain.EntityDailyMetrics, len(rows))
	for _, r := range rows {
		previous[r.EntityID] = r
	}

	return previous, nil
}

func topUnresolved(groups []domain.QueueGroup, limit int) []ports.SurfaceCount {
	counts := make([]ports.SurfaceCount, 0, len(groups))
	for _, g := range groups {
		counts = append(counts, ports.SurfaceCount{Surface: g.Surface, Count: g.Count})
	}

	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })

	if len(counts) > limit {
		counts = counts[:limit]
	}

	return counts
}
