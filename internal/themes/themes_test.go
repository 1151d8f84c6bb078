package themes

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
	"github.com/nkotelnikov/fanpulse/internal/platform/config"
)

type fakeEmbedder struct {
	byText map[string][]float32
	calls  int
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++

	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = f.byText[t]
	}

	return out, nil
}

func themesConfig() *config.Config {
	return &config.Config{
		ThemeMaxPerEntity:  3,
		ThemeSimilarity:    0.82,
		ThemeContextsLimit: 20,
	}
}

func TestBuildClustersSimilarContexts(t *testing.T) {
	embedder := &fakeEmbedder{byText: map[string][]float32{
		"The finale wrecked me.":    {1, 0},
		"That finale destroyed us.": {0.99, 0.05},
		"The soundtrack is great.":  {0, 1},
	}}

	c := NewClusterer(embedder, themesConfig(), zerolog.Nop())

	mentions := []domain.Mention{
		{EntityID: "e", ItemID: "i1", Context: "The finale wrecked me."},
		{EntityID: "e", ItemID: "i2", Context: "That finale destroyed us."},
		{EntityID: "e", ItemID: "i3", Context: "The soundtrack is great."},
	}

	themes, err := c.Build(context.Background(), "run_1", mentions)
	require.NoError(t, err)
	require.Len(t, themes, 2)

	// Largest cluster first.
	finale := themes[0]
	assert.Equal(t, "run_1", finale.RunID)
	assert.Equal(t, "e", finale.EntityID)
	assert.Equal(t, "The finale wrecked me.", finale.Label)
	assert.ElementsMatch(t, []string{"i1", "i2"}, finale.ItemIDs)
	assert.Len(t, finale.Centroid, 2)

	assert.Equal(t, "The soundtrack is great.", themes[1].Label)
}

func TestBuildDedupesContextsPerEntity(t *testing.T) {
	embedder := &fakeEmbedder{byText: map[string][]float32{
		"Same line.": {1, 0},
	}}

	c := NewClusterer(embedder, themesConfig(), zerolog.Nop())

	mentions := []domain.Mention{
		{EntityID: "e", ItemID: "i1", Context: "Same line."},
		{EntityID: "e", ItemID: "i2", Context: "same  LINE."},
		{EntityID: "e", ItemID: "i3", Context: ""},
	}

	themes, err := c.Build(context.Background(), "run_1", mentions)
	require.NoError(t, err)
	require.Len(t, themes, 1)
	assert.Equal(t, []string{"i1"}, themes[0].ItemIDs)
	assert.Equal(t, 1, embedder.calls)
}

func TestBuildCapsThemesPerEntity(t *testing.T) {
	embedder := &fakeEmbedder{byText: map[string][]float32{
		"a": {1, 0, 0},
		"b": {0, 1, 0},
		"c": {0, 0, 1},
	}}

	cfg := themesConfig()
	cfg.ThemeMaxPerEntity = 2

	c := NewClusterer(embedder, cfg, zerolog.Nop())

	mentions := []domain.Mention{
		{EntityID: "e", ItemID: "i1", Context: "a"},
		{EntityID: "e", ItemID: "i2", Context: "b"},
		{EntityID: "e", ItemID: "i3", Context: "c"},
	}

	themes, err := c.Build(context.Background(), "run_1", mentions)
	require.NoError(t, err)
	assert.Len(t, themes, 2)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, cosine([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Equal(t, 0.0, cosine([]float32{1}, []float32{1, 2}))
	assert.Equal(t, 0.0, cosine(nil, nil))
	assert.Equal(t, 0.0, cosine([]float32{0, 0}, []float32{1, 1}))
}
