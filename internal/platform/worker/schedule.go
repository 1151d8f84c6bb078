package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const (
	hoursPerDay = 24

	// defaultDailyGracePeriod prevents duplicate daily runs within the same
	// cutoff window.
	defaultDailyGracePeriod = 20 * time.Hour

	// defaultWeeklyGracePeriod is 6 days - prevents duplicate runs within same week.
	defaultWeeklyGracePeriod = 6 * hoursPerDay * time.Hour

	logFieldTask = "task"
)

// DailyTask runs once per day after a cutoff hour.
type DailyTask struct {
	// Name identifies the task for logging.
	Name string

	// Hour is the hour of the day to run after (0-23).
	Hour int

	// GracePeriod prevents duplicate runs within this duration.
	GracePeriod time.Duration

	// Run executes the task.
	Run func(ctx context.Context, logger *zerolog.Logger) error

	lastRun time.Time
}

// WeeklyTask runs once per week at a specific day and hour.
type WeeklyTask struct {
	// Name identifies the task for logging.
	Name string

	// Day is the day of the week to run (default: Sunday).
	Day time.Weekday

	// Hour is the hour of the day to run (0-23, default: 0).
	Hour int

	// GracePeriod prevents duplicate runs within this duration (default: 6 days).
	GracePeriod time.Duration

	// Run executes the task.
	Run func(ctx context.Context, logger *zerolog.Logger) error

	lastRun time.Time
}

// Scheduler fires daily and weekly tasks from a polling loop. Time checks
// use the given location so cutoffs follow the engine's window timezone.
type Scheduler struct {
	loc    *time.Location
	daily  []*DailyTask
	weekly []*WeeklyTask
	logger *zerolog.Logger
}

// NewScheduler creates a scheduler evaluating due times in loc.
func NewScheduler(loc *time.Location, logger *zerolog.Logger) *Scheduler {
	return &Scheduler{loc: loc, logger: logger}
}

// AddDaily registers a daily task.
func (s *Scheduler) AddDaily(task *DailyTask) {
	if task.GracePeriod == 0 {
		task.GracePeriod = defaultDailyGracePeriod
	}

	s.daily = append(s.daily, task)
}

// AddWeekly registers a weekly task.
func (s *Scheduler) AddWeekly(task *WeeklyTask) {
	if task.GracePeriod == 0 {
		task.GracePeriod = defaultWeeklyGracePeriod
	}

	s.weekly = append(s.weekly, task)
}

// CheckAndRun runs every task that is due. Call this from the worker loop.
func (s *Scheduler) CheckAndRun(ctx context.Context) {
	now := time.Now().In(s.loc)

	for _, task := range s.daily {
		if !ShouldRunDaily(now, task.Hour, task.lastRun, task.GracePeriod) {
			continue
		}

		if s.runTask(ctx, task.Name, task.Run) {
			task.lastRun = now
		}
	}

	for _, task := range s.weekly {
		if !ShouldRunWeekly(now, task.Day, task.Hour, task.lastRun, task.GracePeriod) {
			continue
		}

		if s.runTask(ctx, task.Name, task.Run) {
			task.lastRun = now
		}
	}
}

// runTask executes one task and reports whether it succeeded.
func (s *Scheduler) runTask(ctx context.Context, name string, run func(ctx context.Context, logger *zerolog.Logger) error) bool {
	logger := s.logger.With().Str(logFieldTask, name).Logger()
	logger.Info().Msgf("Starting scheduled %s", name)

	if err := run(ctx, &logger); err != nil {
		logger.Error().Err(err).Msgf("failed to run scheduled %s", name)

		return false
	}

	return true
}

// ShouldRunDaily reports whether a daily task is due: the cutoff hour has
// passed today and the task has not run within the grace period.
func ShouldRunDaily(now time.Time, hour int, lastRun time.Time, gracePeriod time.Duration) bool {
	if now.Hour() < hour {
		return false
	}

	if gracePeriod == 0 {
		gracePeriod = defaultDailyGracePeriod
	}

	return lastRun.IsZero() || now.Sub(lastRun) > gracePeriod
}

// ShouldRunWeekly reports whether a weekly task is due at now.
func ShouldRunWeekly(now time.Time, day time.Weekday, hour int, lastRun time.Time, gracePeriod time.Duration) bool {
	if now.Weekday() != day {
		return false
	}

	if now.Hour() != hour {
		return false
	}

	if gracePeriod == 0 {
		gracePeriod = defaultWeeklyGracePeriod
	}

	return lastRun.IsZero() || now.Sub(lastRun) > gracePeriod
}
