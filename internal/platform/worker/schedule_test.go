package worker

import (
	"testing"
	"time"
)

func TestShouldRunDaily(t *testing.T) {
	// Tuesday 2025-03-04.
	day := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		now     time.Time
		hour    int
		lastRun time.Time
		grace   time.Duration
		want    bool
	}{
		{
			name: "before cutoff hour",
			now:  day.Add(5 * time.Hour),
			hour: 6,
			want: false,
		},
		{
			name: "at cutoff hour, never run",
			now:  day.Add(6 * time.Hour),
			hour: 6,
			want: true,
		},
		{
			name: "late in the day, never run",
			now:  day.Add(23 * time.Hour),
			hour: 6,
			want: true,
		},
		{
			name:    "ran two hours ago",
			now:     day.Add(8 * time.Hour),
			hour:    6,
			lastRun: day.Add(6 * time.Hour),
			want:    false,
		},
		{
			name:    "ran yesterday",
			now:     day.Add(6 * time.Hour),
			hour:    6,
			lastRun: day.Add(-18 * time.Hour),
			want:    true,
		},
		{
			name:    "zero grace uses the default",
			now:     day.Add(7 * time.Hour),
			hour:    6,
			lastRun: day.Add(6 * time.Hour),
			grace:   0,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShouldRunDaily(tt.now, tt.hour, tt.lastRun, tt.grace)
			if got != tt.want {
				t.Errorf("ShouldRunDaily() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShouldRunWeekly(t *testing.T) {
	// Monday 2025-03-03 06:00 UTC.
	monday6 := time.Date(2025, 3, 3, 6, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		now     time.Time
		day     time.Weekday
		hour    int
		lastRun time.Time
		want    bool
	}{
		{
			name: "exact day and hour, never run",
			now:  monday6,
			day:  time.Monday,
			hour: 6,
			want: true,
		},
		{
			name: "wrong day",
			now:  monday6.Add(24 * time.Hour),
			day:  time.Monday,
			hour: 6,
			want: false,
		},
		{
			name: "wrong hour",
			now:  monday6.Add(time.Hour),
			day:  time.Monday,
			hour: 6,
			want: false,
		},
		{
			name:    "ran last week",
			now:     monday6,
			day:     time.Monday,
			hour:    6,
			lastRun: monday6.Add(-7 * 24 * time.Hour),
			want:    true,
		},
		{
			name:    "ran this hour already",
			now:     monday6.Add(30 * time.Minute),
			day:     time.Monday,
			hour:    6,
			lastRun: monday6,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShouldRunWeekly(tt.now, tt.day, tt.hour, tt.lastRun, 0)
			if got != tt.want {
				t.Errorf("ShouldRunWeekly() = %v, want %v", got, tt.want)
			}
		})
	}
}
