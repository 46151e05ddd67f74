package worker

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/saasbase/projecthub/internal/observability/metrics"
)

// statsTables are the tables whose row counts feed the gauges.
var statsTables = []string{"users", "projects", "tasks", "team_members"}

// StatsWorker periodically refreshes the table row-count gauges. Counts
// are global (across tenants); no tenant data leaves the metric.
type StatsWorker struct {
	db       *sql.DB
	logger   *slog.Logger
	interval time.Duration
}

// NewStatsWorker creates a new stats worker
func NewStatsWorker(db *sql.DB, logger *slog.Logger, interval time.Duration) *StatsWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsWorker{
		db:       db,
		logger:   logger,
		interval: interval,
	}
}

// Start runs the refresh loop until the context is cancelled.
func (w *StatsWorker) Start(ctx context.Context) {
	w.logger.Info("stats worker started", slog.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("stats worker stopped")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *StatsWorker) refresh(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for _, table := range statsTables {
		var count int64
		// Table names come from the fixed list above, never from input.
		if err := w.db.QueryRowContext(refreshCtx, "SELECT count(*) FROM "+table).Scan(&count); err != nil {
			w.logger.Warn("failed to count rows",
				slog.String("table", table),
				slog.String("error", err.Error()),
			)
			continue
		}
		metrics.SetTableRows(table, count)
	}
}
