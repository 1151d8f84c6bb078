// Package report renders a persisted run as a plain-text summary so an
// operator can inspect pipeline output from the command line.
package report

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/nkotelnikov/fanpulse/internal/core/domain"
	"github.com/nkotelnikov/fanpulse/internal/core/ports"
)

// Reporter reads one run and writes a human-readable summary.
type Reporter struct {
	reader ports.ReportReader
}

// New returns a reporter backed by the given reader.
func New(reader ports.ReportReader) *Reporter {
	return &Reporter{reader: reader}
}

// Write renders the summary for runID: the run header, entities ordered by
// fame, the ranked drivers and the resolve queue.
func (r *Reporter) Write(ctx context.Context, w io.Writer, runID string) error {
	run, err := r.reader.GetRun(ctx, runID)
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}

	metrics, err := r.reader.GetMetricsByRun(ctx, runID)
	if err != nil {
		return fmt.Errorf("get run metrics: %w", err)
	}

	drivers, err := r.reader.GetDriversByRun(ctx, runID)
	if err != nil {
		return fmt.Errorf("get run drivers: %w", err)
	}

	queue, err := r.reader.GetQueueByRun(ctx, runID)
	if err != nil {
		return fmt.Errorf("get resolve queue: %w", err)
	}

	fmt.Fprintf(w, "run %s  status=%s\nwindow %s .. %s\n",
		run.ID, run.Status,
		run.WindowStart.Format(time.RFC3339), run.WindowEnd.Format(time.RFC3339))

	writeEntities(w, metrics)
	writeDrivers(w, drivers)
	writeQueue(w, queue)

	return nil
}

func writeEntities(w io.Writer, metrics []domain.EntityDailyMetrics) {
	fmt.Fprintf(w, "\nentities (%d)\n", len(metrics))

	if len(metrics) == 0 {
		return
	}

	sort.SliceStable(metrics, func(i, j int) bool {
		if metrics[i].Fame != metrics[j].Fame {
			return metrics[i].Fame > metrics[j].Fame
		}

		return metrics[i].EntityID < metrics[j].EntityID
	})

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ENTITY\tFAME\tLOVE\tMOMENTUM\tPOLARIZATION\tMENTIONS")

	for _, m := range metrics {
		fmt.Fprintf(tw, "%s\t%.1f\t%.1f\t%+.1f\t%.1f\t%d\n",
			m.EntityID, m.Fame, m.Love, m.Momentum, m.Polarization,
			m.ExplicitCount+m.ImplicitCount)
	}

	tw.Flush()
}

func writeDrivers(w io.Writer, drivers []domain.Driver) {
	fmt.Fprintf(w, "\ndrivers (%d)\n", len(drivers))

	for _, d := range drivers {
		fmt.Fprintf(w, "  %s #%d  impact=%.1f  item=%s  %s\n",
			d.EntityID, d.Rank, d.ImpactScore, d.ItemID, d.Reason)
	}
}

func writeQueue(w io.Writer, queue []domain.QueueGroup) {
	fmt.Fprintf(w, "\nresolve queue (%d)\n", len(queue))

	for _, g := range queue {
		fmt.Fprintf(w, "  %q  count=%d  impact=%.1f\n", g.Surface, g.Count, g.Impact)
	}
}
