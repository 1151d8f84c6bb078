package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RunsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fanpulse_runs_started_total",
		Help: "The total number of pipeline runs started",
	})

	RunsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fanpulse_runs_finished_total",
		Help: "The total number of pipeline runs finished, by status",
	}, []string{"status"})

	RunDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fanpulse_run_duration_seconds",
		Help:    "Duration in seconds of a full pipeline run",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
	})

	StageDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fanpulse_stage_duration_seconds",
		Help:    "Duration in seconds of individual pipeline stages",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	ItemsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fanpulse_items_processed_total",
		Help: "The total number of content items processed, by source",
	}, []string{"source"})

	MentionsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fanpulse_mentions_resolved_total",
		Help: "The total number of resolved mentions, by kind (explicit/implicit)",
	}, []string{"kind"})

	MentionsUnresolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fanpulse_mentions_unresolved_total",
		Help: "The total number of unresolved mentions, by source",
	}, []string{"source"})

	EntitiesScored = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fanpulse_entities_scored",
		Help: "Number of entities that received daily metrics in the last run",
	})

	ResolveQueueSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fanpulse_resolve_queue_size",
		Help: "Number of surface groups in the resolve queue after the last run",
	})

	SentimentRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fanpulse_sentiment_request_duration_seconds",
		Help:    "Duration of sentiment provider calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})

	SentimentFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fanpulse_sentiment_fallbacks_total",
		Help: "The total number of model sentiment calls that fell back to the lexicon",
	})
)
