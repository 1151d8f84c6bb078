package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
	coreerrors "github.com/nkotelnikov/fanpulse/internal/core/errors"
)

type fakeEntityRepo struct {
	stored   []domain.CatalogEntity
	upserted []domain.CatalogEntity
}

func (f *fakeEntityRepo) GetActiveEntities(context.Context) ([]domain.CatalogEntity, error) {
	return f.stored, nil
}

func (f *fakeEntityRepo) UpsertEntity(_ context.Context, e domain.CatalogEntity) error {
	f.upserted = append(f.upserted, e)

	return nil
}

func (f *fakeEntityRepo) CountMentionsSince(context.Context, string, time.Time, time.Time) (int, error) {
	return 0, nil
}

func writePinned(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "pinned.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadPinned(t *testing.T) {
	path := writePinned(t, `[
		{"id": "wren-show", "canonical_name": "Wren", "type": "SHOW", "aliases": ["the wren files"], "context_hints": ["netflix"]},
		{"id": "mira", "canonical_name": "Mira Voss", "type": "PERSON", "prior_weight": 0.8}
	]`)

	entities, err := LoadPinned(path)
	require.NoError(t, err)
	require.Len(t, entities, 2)

	show := entities[0]
	assert.Equal(t, "wren-show", show.ID)
	assert.Equal(t, domain.EntityShow, show.Type)
	assert.Equal(t, []string{"the wren files"}, show.Aliases)
	assert.Equal(t, 1.0, show.PriorWeight)
	assert.True(t, show.Pinned)

	// Explicit prior survives.
	assert.Equal(t, 0.8, entities[1].PriorWeight)
}

func TestLoadPinnedRejectsMissingFields(t *testing.T) {
	path := writePinned(t, `[{"id": "", "canonical_name": "Nameless"}]`)

	_, err := LoadPinned(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, coreerrors.ErrInvalidConfig)
}

func TestLoadPinnedMissingFile(t *testing.T) {
	_, err := LoadPinned(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestActiveMergesPinnedOverStored(t *testing.T) {
	repo := &fakeEntityRepo{
		stored: []domain.CatalogEntity{
			{ID: "wren-show", CanonicalName: "Wren", Type: domain.EntityShow, Aliases: []string{"wren s2"}, PriorWeight: 0.5},
			{ID: "stored-only", CanonicalName: "Stored Only", Type: domain.EntityPerson},
		},
	}

	path := writePinned(t, `[
		{"id": "wren-show", "canonical_name": "Wren", "type": "SHOW", "aliases": ["the wren files", "wren s2"]}
	]`)

	c := New(repo, zerolog.Nop())

	entities, err := c.Active(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, entities, 2)

	// Sorted by id: stored-only, wren-show.
	assert.Equal(t, "stored-only", entities[0].ID)

	// Stored entities without a prior get the default.
	assert.Equal(t, 0.5, entities[0].PriorWeight)

	wren := entities[1]
	assert.True(t, wren.Pinned)
	assert.Equal(t, 1.0, wren.PriorWeight)
	assert.Equal(t, []string{"the wren files", "wren s2"}, wren.Aliases)
}

func TestActiveEmptyCatalog(t *testing.T) {
	c := New(&fakeEntityRepo{}, zerolog.Nop())

	entities, err := c.Active(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, entities)
}

func TestSync(t *testing.T) {
	repo := &fakeEntityRepo{}
	c := New(repo, zerolog.Nop())

	path := writePinned(t, `[{"id": "mira", "canonical_name": "Mira Voss", "type": "PERSON"}]`)

	n, err := c.Sync(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, repo.upserted, 1)
	assert.Equal(t, "mira", repo.upserted[0].ID)
}
