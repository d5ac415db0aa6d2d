package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/outlay-cli/outlay/internal/common"
	"github.com/outlay-cli/outlay/internal/export"
	"github.com/outlay-cli/outlay/internal/model"
	"github.com/outlay-cli/outlay/internal/report"
	"github.com/outlay-cli/outlay/internal/service"
	"github.com/robfig/cron"
)

// pollSpec is how often the runner checks for due backups. Schedules fire at
// 02:00, so minute-level resolution is plenty.
const pollSpec = "@every 1m"

// Runner executes due scheduled backups. Local backups land as files under
// OutDir; sink-backed destinations go through the configured ReportSink.
type Runner struct {
	store  service.Store
	engine *export.Engine
	sink   service.ReportSink // optional
	outDir string
	now    func() time.Time
	logger *slog.Logger
	cron   *cron.Cron
}

// NewRunner creates a runner. The sink may be nil, in which case non-local
// destinations are skipped with a warning.
func NewRunner(store service.Store, engine *export.Engine, sink service.ReportSink, outDir string, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		store:  store,
		engine: engine,
		sink:   sink,
		outDir: outDir,
		now:    time.Now,
		logger: logger,
	}
}

// Start begins polling for due backups until the context is canceled.
func (r *Runner) Start(ctx context.Context) error {
	c := cron.New()
	if err := c.AddFunc(pollSpec, func() {
		if _, err := r.RunDue(ctx); err != nil {
			r.logger.Error("scheduled backup pass failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to register cron entry: %w", err)
	}

	c.Start()
	r.cron = c
	r.logger.Info("backup scheduler started", "poll", pollSpec)

	<-ctx.Done()
	c.Stop()
	r.logger.Info("backup scheduler stopped")
	return nil
}

// RunDue executes every enabled schedule whose NextRun has passed, then
// advances its NextRun and records LastRun. Returns how many backups ran.
func (r *Runner) RunDue(ctx context.Context) (int, error) {
	schedules, err := r.store.GetSchedules(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load schedules: %w", err)
	}

	now := r.now()
	ran := 0
	changed := false

	for i := range schedules {
		b := &schedules[i]
		if !b.Enabled || b.NextRun.After(now) {
			continue
		}

		if err := r.execute(ctx, *b); err != nil {
			r.logger.Error("scheduled backup failed",
				"schedule", b.ID,
				"destination", b.Destination,
				"error", err)
		} else {
			ran++
		}

		// Advance the schedule even on failure so a broken destination
		// cannot wedge the runner into retrying every minute.
		next, err := NextRun(b.Frequency, now)
		if err != nil {
			return ran, err
		}
		b.LastRun = now
		b.NextRun = next
		changed = true
	}

	if changed {
		if err := r.store.SaveSchedules(ctx, schedules); err != nil {
			return ran, fmt.Errorf("failed to persist schedules: %w", err)
		}
	}

	return ran, nil
}

// execute runs a single backup end to end.
func (r *Runner) execute(ctx context.Context, b model.ScheduledBackup) error {
	expenses, err := r.store.GetExpenses(ctx)
	if err != nil {
		return fmt.Errorf("failed to load expenses: %w", err)
	}

	destination := "Scheduled Backup: " + b.Destination
	outcome, err := r.engine.Run(ctx, expenses, export.RunOptions{
		Format:      b.Format,
		Filename:    export.DefaultFilename(r.now()),
		Destination: destination,
	})
	if err != nil {
		// A failed history write still hands back the generated export;
		// deliver it rather than dropping the backup until the next period.
		if outcome == nil || !errors.Is(err, common.ErrStorageWrite) {
			return err
		}
		r.logger.Warn("backup generated but history was not recorded",
			"schedule", b.ID,
			"error", err)
	}

	switch b.Destination {
	case "local":
		path := filepath.Join(r.outDir, outcome.Result.Filename)
		if err := os.MkdirAll(r.outDir, 0750); err != nil {
			return fmt.Errorf("failed to create backup directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(outcome.Result.Content), 0600); err != nil {
			return fmt.Errorf("failed to write backup file: %w", err)
		}
		r.logger.Info("wrote scheduled backup", "schedule", b.ID, "path", path)
	default:
		if r.sink == nil {
			r.logger.Warn("no sink configured for destination, backup recorded only",
				"schedule", b.ID,
				"destination", b.Destination)
			return nil
		}
		summary := &service.ExportSummary{
			GeneratedAt: r.now(),
			RecordCount: outcome.Result.RecordCount,
			TotalAmount: outcome.Result.TotalAmount,
			ByCategory:  report.CategoryTotals(expenses),
		}
		if err := r.sink.Write(ctx, expenses, summary); err != nil {
			return fmt.Errorf("failed to sync backup to %s: %w", b.Destination, err)
		}
		r.logger.Info("synced scheduled backup", "schedule", b.ID, "destination", b.Destination)
	}

	return nil
}
