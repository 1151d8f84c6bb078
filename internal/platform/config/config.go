// Package config loads engine configuration from the environment and the
// optional per-source weight table from YAML. Misconfigured disambiguation
// weights are a startup error, not a per-mention error.
package config

import (
	"fmt"
	"math"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	apperrors "github.com/nkotelnikov/fanpulse/internal/core/errors"
)

const weightSumTolerance = 1e-9

type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"local"`
	PostgresDSN string `env:"POSTGRES_DSN,required"`
	HealthPort  int    `env:"HEALTH_PORT" envDefault:"8080"`

	// Database pool
	DBMaxConnections    int32         `env:"DB_MAX_CONNECTIONS" envDefault:"10"`
	DBMinConnections    int32         `env:"DB_MIN_CONNECTIONS" envDefault:"2"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"5m"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// Disambiguation scorer weights (must sum to 1)
	ScorerPriorWeight     float64 `env:"SCORER_PRIOR_WEIGHT" envDefault:"0.40"`
	ScorerContextWeight   float64 `env:"SCORER_CONTEXT_WEIGHT" envDefault:"0.25"`
	ScorerComentionWeight float64 `env:"SCORER_COMENTION_WEIGHT" envDefault:"0.20"`
	ScorerTypeFitWeight   float64 `env:"SCORER_TYPEFIT_WEIGHT" envDefault:"0.10"`
	ScorerSourceWeight    float64 `env:"SCORER_SOURCE_WEIGHT" envDefault:"0.05"`

	// Resolution thresholds
	ResolveMinConfidence float64 `env:"RESOLVE_MIN_CONFIDENCE" envDefault:"0.70"`
	ResolveMinMargin     float64 `env:"RESOLVE_MIN_MARGIN" envDefault:"0.15"`
	MaxCandidates        int     `env:"MAX_CANDIDATES" envDefault:"7"`
	FocusWindowSentences int     `env:"FOCUS_WINDOW_SENTENCES" envDefault:"2"`
	ImplicitWeight       float64 `env:"IMPLICIT_WEIGHT" envDefault:"0.5"`

	// Parallelism across items; resolution within one item stays sequential.
	ResolveWorkers int `env:"RESOLVE_WORKERS" envDefault:"4"`

	// Aggregation and axes
	FameBaselineWeight  float64 `env:"FAME_BASELINE_WEIGHT" envDefault:"0.3"`
	FameAttentionWeight float64 `env:"FAME_ATTENTION_WEIGHT" envDefault:"0.7"`
	AttentionScale      float64 `env:"ATTENTION_SCALE" envDefault:"10.0"`
	MomentumFameWeight  float64 `env:"MOMENTUM_FAME_WEIGHT" envDefault:"0.7"`
	MomentumLoveWeight  float64 `env:"MOMENTUM_LOVE_WEIGHT" envDefault:"0.3"`

	// Outputs
	DriverTopK        int `env:"DRIVER_TOP_K" envDefault:"10"`
	QueueExampleLimit int `env:"QUEUE_EXAMPLE_LIMIT" envDefault:"3"`

	// Daily window boundary (fixed local-time cutoff)
	WindowHour     int    `env:"WINDOW_HOUR" envDefault:"6"`
	WindowTimezone string `env:"WINDOW_TIMEZONE" envDefault:"America/Los_Angeles"`

	// Scheduler
	WorkerTickInterval time.Duration `env:"WORKER_TICK_INTERVAL" envDefault:"10m"`

	// Sentiment provider
	SentimentMode string  `env:"SENTIMENT_MODE" envDefault:"lexicon"`
	LLMAPIKey     string  `env:"LLM_API_KEY"`
	LLMModel      string  `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	SentimentRPS  float64 `env:"SENTIMENT_RPS" envDefault:"2"`

	// Themes
	ThemesEnabled      bool    `env:"THEMES_ENABLED" envDefault:"false"`
	EmbeddingModel     string  `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
	ThemeMaxPerEntity  int     `env:"THEME_MAX_PER_ENTITY" envDefault:"3"`
	ThemeSimilarity    float64 `env:"THEME_SIMILARITY" envDefault:"0.82"`
	ThemeContextsLimit int     `env:"THEME_CONTEXTS_LIMIT" envDefault:"20"`

	// Weekly baseline
	BaselineLookbackDays int `env:"BASELINE_LOOKBACK_DAYS" envDefault:"90"`
	BaselineVolumeCap    int `env:"BASELINE_VOLUME_CAP" envDefault:"1000"`

	// Files
	PinnedEntitiesPath string `env:"PINNED_ENTITIES_PATH" envDefault:"./config/pinned_entities.json"`
	WeightsPath        string `env:"WEIGHTS_PATH" envDefault:"./config/weights.yaml"`
}

func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional, error is expected when not present

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks invariants that must hold before any run starts.
func (c *Config) Validate() error {
	sum := c.ScorerPriorWeight + c.ScorerContextWeight + c.ScorerComentionWeight +
		c.ScorerTypeFitWeight + c.ScorerSourceWeight
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: got %.6f", apperrors.ErrScorerWeights, sum)
	}

	if c.ResolveMinConfidence < 0 || c.ResolveMinConfidence > 1 {
		return fmt.Errorf("%w: RESOLVE_MIN_CONFIDENCE out of [0,1]", apperrors.ErrInvalidConfig)
	}

	if c.ResolveMinMargin < 0 || c.ResolveMinMargin > 1 {
		return fmt.Errorf("%w: RESOLVE_MIN_MARGIN out of [0,1]", apperrors.ErrInvalidConfig)
	}

	if c.ImplicitWeight <= 0 || c.ImplicitWeight >= 1 {
		return fmt.Errorf("%w: IMPLICIT_WEIGHT must be in (0,1)", apperrors.ErrInvalidConfig)
	}

	if c.FocusWindowSentences < 1 {
		return fmt.Errorf("%w: FOCUS_WINDOW_SENTENCES must be positive", apperrors.ErrInvalidConfig)
	}

	if c.ResolveWorkers < 1 {
		return fmt.Errorf("%w: RESOLVE_WORKERS must be positive", apperrors.ErrInvalidConfig)
	}

	return nil
}
