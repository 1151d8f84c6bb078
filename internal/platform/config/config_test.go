package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/nkotelnikov/fanpulse/internal/core/errors"
)

func validConfig() *Config {
	return &Config{
		ScorerPriorWeight:     0.40,
		ScorerContextWeight:   0.25,
		ScorerComentionWeight: 0.20,
		ScorerTypeFitWeight:   0.10,
		ScorerSourceWeight:    0.05,
		ResolveMinConfidence:  0.70,
		ResolveMinMargin:      0.15,
		ImplicitWeight:        0.5,
		FocusWindowSentences:  2,
		ResolveWorkers:        4,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "defaults pass",
			mutate: func(*Config) {},
		},
		{
			name:    "scorer weights must sum to one",
			mutate:  func(c *Config) { c.ScorerPriorWeight = 0.50 },
			wantErr: apperrors.ErrScorerWeights,
		},
		{
			name:    "confidence above one",
			mutate:  func(c *Config) { c.ResolveMinConfidence = 1.5 },
			wantErr: apperrors.ErrInvalidConfig,
		},
		{
			name:    "negative margin",
			mutate:  func(c *Config) { c.ResolveMinMargin = -0.1 },
			wantErr: apperrors.ErrInvalidConfig,
		},
		{
			name:    "implicit weight at one",
			mutate:  func(c *Config) { c.ImplicitWeight = 1.0 },
			wantErr: apperrors.ErrInvalidConfig,
		},
		{
			name:    "zero focus window",
			mutate:  func(c *Config) { c.FocusWindowSentences = 0 },
			wantErr: apperrors.ErrInvalidConfig,
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.ResolveWorkers = 0 },
			wantErr: apperrors.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr == nil {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
