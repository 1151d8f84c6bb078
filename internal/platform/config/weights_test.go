package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
)

func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()

	assert.Equal(t, 2.0, w.QueueBase(domain.SourceEditorial))
	assert.Equal(t, 1.3, w.QueueBase(domain.SourceNews))
	assert.Equal(t, 1.2, w.QueueBase(domain.SourceReddit))
	assert.Equal(t, 1.1, w.QueueBase(domain.SourceYouTube))
	assert.Equal(t, 1.0, w.QueueBase(domain.SourceUnknown))

	// Love and fame tables default to neutral.
	assert.Equal(t, 1.0, w.Love(domain.SourceReddit))
	assert.Equal(t, 1.0, w.Fame(domain.SourceYouTube))
}

func TestLoadWeightsMissingFileFallsBack(t *testing.T) {
	w, err := LoadWeights(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 2.0, w.QueueBase(domain.SourceEditorial))
}

func TestLoadWeightsOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")

	data := []byte(`source_weights:
  love:
    reddit: 0.8
  fame:
    youtube: 1.5
queue_base_weights:
  editorial: 3.0
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	w, err := LoadWeights(path)
	require.NoError(t, err)

	assert.Equal(t, 0.8, w.Love(domain.SourceReddit))
	assert.Equal(t, 1.5, w.Fame(domain.SourceYouTube))
	assert.Equal(t, 3.0, w.QueueBase(domain.SourceEditorial))

	// Sources not overridden keep their compiled-in values.
	assert.Equal(t, 1.3, w.QueueBase(domain.SourceNews))
}

func TestLoadWeightsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte("queue_base_weights: ["), 0o600))

	_, err := LoadWeights(path)
	assert.Error(t, err)
}
