package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
	coreerrors "github.com/nkotelnikov/fanpulse/internal/core/errors"
)

// CreateRun inserts a new run record.
func (db *DB) CreateRun(ctx context.Context, run *domain.Run) error {
	if _, err := db.Pool.Exec(ctx, `
		INSERT INTO runs (id, window_start, window_end, started_at, status)
		VALUES ($1, $2, $3, $4, $5)
	`, run.ID, toTimestamptz(run.WindowStart), toTimestamptz(run.WindowEnd),
		toTimestamptz(run.StartedAt), string(run.Status)); err != nil {
		return fmt.Errorf("create run: %w", err)
	}

	return nil
}

// GetRun returns one run by id.
func (db *DB) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	run, err := db.scanRun(db.Pool.QueryRow(ctx, `
		SELECT id, window_start, window_end, started_at, finished_at, status
		FROM runs
		WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, coreerrors.ErrRunNotFound
	}

	return run, err
}

// GetRunByWindow returns the latest run covering exactly [start, end), or
// nil when the window has never been run.
func (db *DB) GetRunByWindow(ctx context.Context, start, end time.Time) (*domain.Run, error) {
	run, err := db.scanRun(db.Pool.QueryRow(ctx, `
		SELECT id, window_start, window_end, started_at, finished_at, status
		FROM runs
		WHERE window_start = $1 AND window_end = $2
		ORDER BY started_at DESC
		LIMIT 1
	`, toTimestamptz(start), toTimestamptz(end)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}

	return run, err
}

// GetLatestSuccessBefore returns the most recent SUCCESS run whose window
// ended at or before windowStart, or nil when none exists. It anchors
// momentum deltas to the last complete output.
func (db *DB) GetLatestSuccessBefore(ctx context.Context, windowStart time.Time) (*domain.Run, error) {
	run, err := db.scanRun(db.Pool.QueryRow(ctx, `
		SELECT id, window_start, window_end, started_at, finished_at, status
		FROM runs
		WHERE status = 'SUCCESS' AND window_end <= $1
		ORDER BY window_end DESC, started_at DESC
		LIMIT 1
	`, toTimestamptz(windowStart)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}

	return run, err
}

// UpdateRunStatus transitions a run to a terminal status.
func (db *DB) UpdateRunStatus(ctx context.Context, id string, status domain.RunStatus, finishedAt time.Time) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE runs SET status = $2, finished_at = $3 WHERE id = $1
	`, id, string(status), toTimestamptz(finishedAt))
	if err != nil {
		return fmt.Errorf("update run status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return coreerrors.ErrRunNotFound
	}

	return nil
}

func (db *DB) scanRun(row pgx.Row) (*domain.Run, error) {
	var (
		run        domain.Run
		status     string
		finishedAt pgtype.Timestamptz
	)

	if err := row.Scan(&run.ID, &run.WindowStart, &run.WindowEnd, &run.StartedAt, &finishedAt, &status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}

		return nil, fmt.Errorf("scan run: %w", err)
	}

	run.Status = domain.RunStatus(status)
	run.FinishedAt = fromTimestamptz(finishedAt)

	return &run, nil
}
