// Package app provides the application bootstrap and runtime orchestration.
//
// The App type wires together all dependencies and exposes methods for the
// operational modes:
//
//   - Run: execute one daily pipeline run and exit
//   - Worker: scheduler loop firing the daily run and weekly baseline
//   - Baseline: recompute weekly baseline fame once
//   - Catalog sync: push the pinned seed file into storage
//   - Import: load a JSONL item export into storage
//   - Report: print a plain-text summary of a persisted run
//
// Each mode can be run independently based on deployment needs.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/nkotelnikov/fanpulse/internal/baseline"
	"github.com/nkotelnikov/fanpulse/internal/catalog"
	"github.com/nkotelnikov/fanpulse/internal/core/ports"
	"github.com/nkotelnikov/fanpulse/internal/ingest"
	"github.com/nkotelnikov/fanpulse/internal/pipeline"
	"github.com/nkotelnikov/fanpulse/internal/platform/config"
	"github.com/nkotelnikov/fanpulse/internal/platform/observability"
	"github.com/nkotelnikov/fanpulse/internal/platform/worker"
	"github.com/nkotelnikov/fanpulse/internal/report"
	"github.com/nkotelnikov/fanpulse/internal/sentiment"
	db "github.com/nkotelnikov/fanpulse/internal/storage"
	"github.com/nkotelnikov/fanpulse/internal/themes"
)

const (
	sentimentModeModel = "model"

	runTimeout      = 30 * time.Minute
	baselineTimeout = 15 * time.Minute
)

// App holds the application dependencies and provides methods to run
// different modes.
type App struct {
	cfg      *config.Config
	weights  *config.Weights
	database *db.DB
	logger   *zerolog.Logger
}

// New creates a new App instance with the given dependencies.
func New(cfg *config.Config, weights *config.Weights, database *db.DB, logger *zerolog.Logger) *App {
	return &App{
		cfg:      cfg,
		weights:  weights,
		database: database,
		logger:   logger,
	}
}

// StartHealthServer starts the health check and metrics server.
func (a *App) StartHealthServer(ctx context.Context) error {
	return observability.NewServer(a.database, a.cfg.HealthPort, a.logger).Start(ctx)
}

// RunOnce executes one daily pipeline run for the window containing now.
func (a *App) RunOnce(ctx context.Context, now time.Time) error {
	p := a.buildPipeline()

	if _, err := p.Run(ctx, now); err != nil {
		return fmt.Errorf("pipeline run: %w", err)
	}

	return nil
}

// RunWorker runs the scheduler loop: the daily pipeline after the window
// cutoff and the weekly baseline recompute on Mondays.
func (a *App) RunWorker(ctx context.Context) error {
	loc, err := time.LoadLocation(a.cfg.WindowTimezone)
	if err != nil {
		return fmt.Errorf("load window timezone: %w", err)
	}

	scheduler := worker.NewScheduler(loc, a.logger)

	scheduler.AddDaily(&worker.DailyTask{
		Name: "daily pipeline run",
		Hour: a.cfg.WindowHour,
		Run: func(ctx context.Context, logger *zerolog.Logger) error {
			defer worker.RecoverPanic(logger, "daily pipeline run")

			return worker.RunWithTimeout(ctx, runTimeout, func(ctx context.Context) error {
				return a.RunOnce(ctx, time.Now())
			})
		},
	})

	scheduler.AddWeekly(&worker.WeeklyTask{
		Name: "weekly baseline recompute",
		Day:  time.Monday,
		Hour: a.cfg.WindowHour,
		Run: func(ctx context.Context, logger *zerolog.Logger) error {
			defer worker.RecoverPanic(logger, "weekly baseline recompute")

			return worker.RunWithTimeout(ctx, baselineTimeout, func(ctx context.Context) error {
				return a.RunBaseline(ctx)
			})
		},
	})

	return worker.Loop(ctx, worker.Config{
		Name:         "scheduler",
		PollInterval: a.cfg.WorkerTickInterval,
		Process: func(ctx context.Context) error {
			scheduler.CheckAndRun(ctx)

			return nil
		},
		Logger: a.logger,
	})
}

// RunBaseline recomputes weekly baseline fame for all active entities.
func (a *App) RunBaseline(ctx context.Context) error {
	return baseline.NewComputer(a.database, a.database, a.cfg, *a.logger).Compute(ctx, time.Now())
}

// SyncCatalog upserts the pinned seed entities into storage.
func (a *App) SyncCatalog(ctx context.Context) (int, error) {
	return catalog.New(a.database, *a.logger).Sync(ctx, a.cfg.PinnedEntitiesPath)
}

// ImportItems loads a JSONL item export into storage.
func (a *App) ImportItems(ctx context.Context, path string) (int, error) {
	return ingest.New(a.database, *a.logger).ImportFile(ctx, path)
}

// Report writes a plain-text summary of a persisted run to w.
func (a *App) Report(ctx context.Context, w io.Writer, runID string) error {
	return report.New(a.database).Write(ctx, w, runID)
}

func (a *App) buildPipeline() *pipeline.Pipeline {
	repos := pipeline.Repos{
		Items:      a.database,
		Runs:       a.database,
		Metrics:    a.database,
		Drivers:    a.database,
		Queue:      a.database,
		Themes:     a.database,
		RunMetrics: a.database,
		Baselines:  a.database,
	}

	var themer *themes.Clusterer
	if a.cfg.ThemesEnabled {
		embedder := themes.NewOpenAIEmbedder(a.cfg.LLMAPIKey, a.cfg.EmbeddingModel)
		themer = themes.NewClusterer(embedder, a.cfg, *a.logger)
	}

	return pipeline.New(
		a.cfg,
		a.weights,
		catalog.New(a.database, *a.logger),
		repos,
		a.sentimentProvider(),
		themer,
		*a.logger,
	)
}

// sentimentProvider picks the configured provider. The model provider
// falls back to the lexicon internally on per-call failures.
func (a *App) sentimentProvider() ports.SentimentProvider {
	if a.cfg.SentimentMode == sentimentModeModel && a.cfg.LLMAPIKey != "" {
		return sentiment.NewModel(a.cfg.LLMAPIKey, a.cfg.LLMModel, a.cfg.SentimentRPS, a.logger)
	}

	return sentiment.NewLexicon()
}
