package pipeline

import (
	"fmt"
	"time"
)

// Window is the half-open [Start, End) interval a run covers.
type Window struct {
	Start time.Time
	End   time.Time
}

// DailyWindow returns the most recent completed daily window for now. The
// window ends at the configured cutoff hour in the configured timezone and
// spans the preceding 24 hours. A run at 05:30 local therefore covers the
// window that ended at yesterday's cutoff.
func DailyWindow(now time.Time, cutoffHour int, timezone string) (Window, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return Window{}, fmt.Errorf("load window timezone %q: %w", timezone, err)
	}

	local := now.In(loc)

	end := time.Date(local.Year(), local.Month(), local.Day(), cutoffHour, 0, 0, 0, loc)
	if local.Before(end) {
		end = end.AddDate(0, 0, -1)
	}

	return Window{Start: end.AddDate(0, 0, -1), End: end}, nil
}
