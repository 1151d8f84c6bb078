// Package ports provides domain-centric interfaces for external dependencies.
// These interfaces follow the ports and adapters (hexagonal) architecture pattern,
// allowing the engine to remain independent of infrastructure concerns.
package ports

import (
	"context"
	"time"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
)

// SentimentProvider scores arbitrary text. Implementations may be
// lexicon-based or model-based; the engine treats them as opaque.
// Load is called once before the first Score call.
type SentimentProvider interface {
	Load(ctx context.Context) error
	Score(ctx context.Context, text string) (domain.FeatureSet, error)
}

// EmbeddingProvider turns texts into dense vectors for theme clustering.
type EmbeddingProvider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// BaselineReader looks up slow-moving baseline fame, keyed by entity and
// week. Absent entries read as 0.
type BaselineReader interface {
	BaselineFame(ctx context.Context, entityID string, weekStart time.Time) (float64, error)
}

// BaselineWriter persists weekly baseline records.
type BaselineWriter interface {
	UpsertBaseline(ctx context.Context, entityID string, weekStart time.Time, baselineFame, mentionVolume float64) error
}

// EntityRepository handles catalog entity persistence.
type EntityRepository interface {
	GetActiveEntities(ctx context.Context) ([]domain.CatalogEntity, error)
	UpsertEntity(ctx context.Context, e domain.CatalogEntity) error
	CountMentionsSince(ctx context.Context, entityID string, since, until time.Time) (int, error)
}

// ItemRepository handles content item access for a run window.
type ItemRepository interface {
	GetItemsForWindow(ctx context.Context, start, end time.Time) ([]domain.ContentItem, error)
	SaveItem(ctx context.Context, item *domain.ContentItem) error
}

// RunRepository handles run lifecycle records.
type RunRepository interface {
	CreateRun(ctx context.Context, run *domain.Run) error
	GetRun(ctx context.Context, id string) (*domain.Run, error)
	GetRunByWindow(ctx context.Context, start, end time.Time) (*domain.Run, error)
	GetLatestSuccessBefore(ctx context.Context, windowStart time.Time) (*domain.Run, error)
	UpdateRunStatus(ctx context.Context, id string, status domain.RunStatus, finishedAt time.Time) error
}

// MetricsRepository handles the durable per-(entity, run) output rows.
type MetricsRepository interface {
	UpsertEntityDailyMetrics(ctx context.Context, m *domain.EntityDailyMetrics) error
	GetMetricsByRun(ctx context.Context, runID string) ([]domain.EntityDailyMetrics, error)
}

// DriverRepository handles ranked driver rows, replaced atomically per run.
type DriverRepository interface {
	ReplaceDrivers(ctx context.Context, runID string, drivers []domain.Driver) error
}

// QueueRepository handles the resolve-queue payload, replaced per run.
type QueueRepository interface {
	ReplaceQueue(ctx context.Context, runID string, groups []domain.QueueGroup) error
}

// ThemeRepository handles theme rows, replaced per run.
type ThemeRepository interface {
	ReplaceThemes(ctx context.Context, runID string, themes []domain.Theme) error
}

// RunMetricsRepository persists resolution counters for instrumentation.
type RunMetricsRepository interface {
	UpsertRunMetrics(ctx context.Context, runID string, rec *RunMetricsRecord) error
}

// ReportReader is the read side a run report renders from.
type ReportReader interface {
	GetRun(ctx context.Context, id string) (*domain.Run, error)
	GetMetricsByRun(ctx context.Context, runID string) ([]domain.EntityDailyMetrics, error)
	GetDriversByRun(ctx context.Context, runID string) ([]domain.Driver, error)
	GetQueueByRun(ctx context.Context, runID string) ([]domain.QueueGroup, error)
}

// SurfaceCount is one entry of the unresolved-surface rollup.
type SurfaceCount struct {
	Surface string `json:"surface"`
	Count   int    `json:"count"`
}

// RunMetricsRecord is the persisted shape of one run's instrumentation.
type RunMetricsRecord struct {
	Counters      domain.RunMetrics
	SourceCounts  map[domain.Source]int
	UnresolvedTop []SurfaceCount
	TimingsMS     map[string]int64
}
