package metrics

import (
	"context"
)

// Recorder tracks publishing outcomes. Recording is best-effort;
// callers log failures and carry on rather than aborting a run over
// lost counters.
type Recorder interface {
	// RecordRun increments the run's counters and stores its summary.
	RecordRun(ctx context.Context, record RunRecord) error
	// GetStats returns a snapshot of the all-time counters.
	GetStats(ctx context.Context) (*Stats, error)
	// GetRecentRuns returns the latest run summaries, newest first.
	GetRecentRuns(ctx context.Context, limit int) ([]RunRecord, error)
	// Reset deletes all metrics keys and reports how many were removed.
	Reset(ctx context.Context) (int64, error)
}
