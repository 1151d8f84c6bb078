package report

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
	coreerrors "github.com/nkotelnikov/fanpulse/internal/core/errors"
)

type fakeReader struct {
	run     *domain.Run
	metrics []domain.EntityDailyMetrics
	drivers []domain.Driver
	queue   []domain.QueueGroup
}

func (f *fakeReader) GetRun(_ context.Context, id string) (*domain.Run, error) {
	if f.run == nil || f.run.ID != id {
		return nil, coreerrors.ErrRunNotFound
	}

	return f.run, nil
}

func (f *fakeReader) GetMetricsByRun(context.Context, string) ([]domain.EntityDailyMetrics, error) {
	return f.metrics, nil
}

func (f *fakeReader) GetDriversByRun(context.Context, string) ([]domain.Driver, error) {
	return f.drivers, nil
}

func (f *fakeReader) GetQueueByRun(context.Context, string) ([]domain.QueueGroup, error) {
	return f.queue, nil
}

func TestWriteRendersRunSummary(t *testing.T) {
	reader := &fakeReader{
		run: &domain.Run{
			ID:          "run_abc",
			WindowStart: time.Date(2025, 3, 3, 6, 0, 0, 0, time.UTC),
			WindowEnd:   time.Date(2025, 3, 4, 6, 0, 0, 0, time.UTC),
			Status:      domain.RunSuccess,
		},
		metrics: []domain.EntityDailyMetrics{
			{EntityID: "mira", Fame: 40.0, Love: 75.0, Momentum: 5.0, ExplicitCount: 2},
			{EntityID: "wren-show", Fame: 62.5, Love: 50.0, Momentum: -1.5, ExplicitCount: 3, ImplicitCount: 1},
		},
		drivers: []domain.Driver{
			{EntityID: "wren-show", Rank: 1, ItemID: "i1", ImpactScore: 31.4, Reason: "Recap from news"},
		},
		queue: []domain.QueueGroup{
			{Surface: "Riley", Count: 2, Impact: 2.4},
		},
	}

	var out strings.Builder

	err := New(reader).Write(context.Background(), &out, "run_abc")
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "run run_abc  status=SUCCESS")
	assert.Contains(t, text, "window 2025-03-03T06:00:00Z .. 2025-03-04T06:00:00Z")

	// Entities come out ordered by fame, highest first.
	assert.Less(t, strings.Index(text, "wren-show"), strings.Index(text, "mira"))
	assert.Contains(t, text, "entities (2)")

	assert.Contains(t, text, "wren-show #1  impact=31.4  item=i1  Recap from news")
	assert.Contains(t, text, `"Riley"  count=2  impact=2.4`)
}

func TestWriteEmptyRun(t *testing.T) {
	reader := &fakeReader{
		run: &domain.Run{ID: "run_empty", Status: domain.RunSuccess},
	}

	var out strings.Builder

	err := New(reader).Write(context.Background(), &out, "run_empty")
	require.NoError(t, err)

	assert.Contains(t, out.String(), "entities (0)")
	assert.Contains(t, out.String(), "drivers (0)")
	assert.Contains(t, out.String(), "resolve queue (0)")
}

func TestWriteUnknownRun(t *testing.T) {
	var out strings.Builder

	err := New(&fakeReader{}).Write(context.Background(), &out, "run_missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, coreerrors.ErrRunNotFound)
	assert.Empty(t, out.String())
}
