package aggregate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
	"github.com/nkotelnikov/fanpulse/internal/platform/config"
)

type stubBaseline struct {
	fame map[string]float64
	err  error
}

func (s *stubBaseline) BaselineFame(_ context.Context, entityID string, _ time.Time) (float64, error) {
	if s.err != nil {
		return 0, s.err
	}

	return s.fame[entityID], nil
}

func axesConfig() *config.Config {
	return &config.Config{
		FameBaselineWeight:  0.3,
		FameAttentionWeight: 0.7,
		AttentionScale:      10.0,
		MomentumFameWeight:  0.7,
		MomentumLoveWeight:  0.3,
	}
}

func TestComputeAxes(t *testing.T) {
	computer := NewAxisComputer(axesConfig(), &stubBaseline{fame: map[string]float64{"e": 60}})

	metrics := []domain.EntityDailyMetrics{
		{
			EntityID:     "e",
			Attention:    5.0,
			SentimentPos: 0.6,
			SentimentNeg: 0.1,
			Polarization: 0.25,
		},
	}

	out, err := computer.Compute(context.Background(), metrics, nil, time.Now())
	require.NoError(t, err)
	require.Len(t, out, 1)

	m := out[0]
	assert.Equal(t, 60.0, m.BaselineFame)

	// 5.0 log-attention rescales to 50 on the 10.0 scale.
	assert.InDelta(t, 50.0, m.Attention, 1e-9)
	assert.InDelta(t, 0.3*60+0.7*50, m.Fame, 1e-9)
	assert.InDelta(t, 50+50*(0.6-0.1), m.Love, 1e-9)
	assert.InDelta(t, 25.0, m.Polarization, 1e-9)

	// No preceding run: momentum reads flat.
	assert.Equal(t, 0.0, m.Momentum)
}

func TestComputeMomentumDelta(t *testing.T) {
	computer := NewAxisComputer(axesConfig(), &stubBaseline{})

	metrics := []domain.EntityDailyMetrics{
		{EntityID: "e", Attention: 5.0, SentimentPos: 0.5},
	}
	previous := map[string]domain.EntityDailyMetrics{
		"e": {EntityID: "e", Fame: 30, Love: 70},
	}

	out, err := computer.Compute(context.Background(), metrics, previous, time.Now())
	require.NoError(t, err)
	require.Len(t, out, 1)

	m := out[0]
	wantFame := 0.7 * 50.0
	wantLove := 75.0
	assert.InDelta(t, 0.7*(wantFame-30)+0.3*(wantLove-70), m.Momentum, 1e-9)
}

func TestComputeClampsAxes(t *testing.T) {
	computer := NewAxisComputer(axesConfig(), &stubBaseline{fame: map[string]float64{"e": 100}})

	metrics := []domain.EntityDailyMetrics{
		{
			EntityID:     "e",
			Attention:    50.0,
			SentimentPos: 1.5,
			Polarization: 2.0,
		},
	}

	out, err := computer.Compute(context.Background(), metrics, nil, time.Now())
	require.NoError(t, err)

	m := out[0]
	assert.Equal(t, 100.0, m.Attention)
	assert.Equal(t, 100.0, m.Fame)
	assert.Equal(t, 100.0, m.Love)
	assert.Equal(t, 100.0, m.Polarization)
}

func TestComputeBaselineError(t *testing.T) {
	computer := NewAxisComputer(axesConfig(), &stubBaseline{err: errors.New("boom")})

	_, err := computer.Compute(context.Background(), []domain.EntityDailyMetrics{{EntityID: "e"}}, nil, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "baseline fame")
}
