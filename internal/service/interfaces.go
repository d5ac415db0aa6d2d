// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/outlay-cli/outlay/internal/model"
)

// ExpenseStore is the persistence contract for the expense ledger itself.
type ExpenseStore interface {
	SaveExpenses(ctx context.Context, expenses []model.Expense) error
	GetExpenses(ctx context.Context) ([]model.Expense, error)
	DeleteExpense(ctx context.Context, id string) error
}

// HistoryStore persists the export history log. Loads must degrade to an
// empty list when the underlying data is missing or corrupt; only writes may
// fail loudly.
type HistoryStore interface {
	GetHistory(ctx context.Context) ([]model.ExportHistoryEntry, error)
	SaveHistory(ctx context.Context, entries []model.ExportHistoryEntry) error
	ClearHistory(ctx context.Context) error
}

// ScheduleStore persists scheduled backups.
type ScheduleStore interface {
	GetSchedules(ctx context.Context) ([]model.ScheduledBackup, error)
	SaveSchedules(ctx context.Context, schedules []model.ScheduledBackup) error
}

// IntegrationStore persists per-integration connection flags.
type IntegrationStore interface {
	GetIntegrationStates(ctx context.Context) (map[string]bool, error)
	SetIntegrationState(ctx context.Context, id string, connected bool) error
}

// Store is the full persistence surface backing the application.
type Store interface {
	ExpenseStore
	HistoryStore
	ScheduleStore
	IntegrationStore

	Migrate(ctx context.Context) error
	Close() error
}

// ReportSink receives a finished export at a remote destination, e.g. a
// Google Sheets spreadsheet. Implementations decide what "sync" means.
type ReportSink interface {
	Write(ctx context.Context, expenses []model.Expense, summary *ExportSummary) error
}

// ExportSummary carries the aggregate numbers a sink may want alongside the
// raw records.
type ExportSummary struct {
	GeneratedAt time.Time
	RecordCount int
	TotalAmount float64
	ByCategory  []model.CategoryTotal
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
