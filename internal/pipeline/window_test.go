package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyWindow(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		cutoff    int
		timezone  string
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "after cutoff ends today",
			now:       time.Date(2025, 3, 4, 8, 30, 0, 0, time.UTC),
			cutoff:    6,
			timezone:  "UTC",
			wantStart: time.Date(2025, 3, 3, 6, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 3, 4, 6, 0, 0, 0, time.UTC),
		},
		{
			name:      "before cutoff ends yesterday",
			now:       time.Date(2025, 3, 4, 5, 30, 0, 0, time.UTC),
			cutoff:    6,
			timezone:  "UTC",
			wantStart: time.Date(2025, 3, 2, 6, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 3, 3, 6, 0, 0, 0, time.UTC),
		},
		{
			name:      "exactly at cutoff ends today",
			now:       time.Date(2025, 3, 4, 6, 0, 0, 0, time.UTC),
			cutoff:    6,
			timezone:  "UTC",
			wantStart: time.Date(2025, 3, 3, 6, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 3, 4, 6, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := DailyWindow(tt.now, tt.cutoff, tt.timezone)
			require.NoError(t, err)

			assert.True(t, w.Start.Equal(tt.wantStart), "start: got %v", w.Start)
			assert.True(t, w.End.Equal(tt.wantEnd), "end: got %v", w.End)
			assert.Equal(t, 24*time.Hour, w.End.Sub(w.Start))
		})
	}
}

func TestDailyWindowTimezone(t *testing.T) {
	// 12:00 UTC is 05:00 PDT, still before the 6 AM cutoff.
	now := time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)

	w, err := DailyWindow(now, 6, "America/Los_Angeles")
	require.NoError(t, err)

	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 7, 9, 6, 0, 0, 0, loc).Unix(), w.End.Unix())
}

func TestDailyWindowBadTimezone(t *testing.T) {
	_, err := DailyWindow(time.Now(), 6, "Mars/Olympus")
	assert.Error(t, err)
}
