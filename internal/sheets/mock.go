package sheets

import (
	"context"
	"log/slog"
	"sync"

	"github.com/outlay-cli/outlay/internal/model"
	"github.com/outlay-cli/outlay/internal/service"
)

// MockSink is a report sink that records writes instead of calling the
// Sheets API. Used in tests and dry runs.
type MockSink struct {
	mu        sync.Mutex
	logger    *slog.Logger
	writes    [][]model.Expense
	summaries []service.ExportSummary
	failWith  error
}

// NewMockSink creates a new mock sink.
func NewMockSink(logger *slog.Logger) *MockSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &MockSink{logger: logger}
}

// FailWith makes every subsequent Write return err.
func (m *MockSink) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// Write records the expenses and summary.
func (m *MockSink) Write(ctx context.Context, expenses []model.Expense, summary *service.ExportSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}

	recorded := make([]model.Expense, len(expenses))
	copy(recorded, expenses)
	m.writes = append(m.writes, recorded)
	if summary != nil {
		m.summaries = append(m.summaries, *summary)
	}

	m.logger.Debug("mock sink recorded write", "records", len(expenses))
	return nil
}

// Writes returns all recorded expense batches.
func (m *MockSink) Writes() [][]model.Expense {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]model.Expense, len(m.writes))
	copy(out, m.writes)
	return out
}

// Summaries returns all recorded summaries.
func (m *MockSink) Summaries() []service.ExportSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]service.ExportSummary, len(m.summaries))
	copy(out, m.summaries)
	return out
}
