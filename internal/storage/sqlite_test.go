package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/outlay-cli/outlay/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testEntry(id string, ts time.Time) model.ExportHistoryEntry {
	return model.ExportHistoryEntry{
		ID:          id,
		Timestamp:   ts,
		Format:      model.FormatCSV,
		Destination: "Local Download",
		RecordCount: 3,
		TotalAmount: 42.50,
		Status:      model.StatusCompleted,
		Filename:    "expenses.csv",
	}
}

func TestSQLiteStorage_MigrateIsIdempotent(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.Migrate(context.Background()))
}

func TestSQLiteStorage_Expenses(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	expenses := []model.Expense{
		{ID: "a", Amount: 12.50, Category: model.CategoryFood, Description: "Lunch", Date: "2024-01-05", CreatedAt: time.Now()},
		{ID: "b", Amount: 100, Category: model.CategoryBills, Description: "Electric", Date: "2024-02-10", CreatedAt: time.Now()},
	}
	require.NoError(t, s.SaveExpenses(ctx, expenses))

	got, err := s.GetExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Newest date first.
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, model.CategoryBills, got[0].Category)
	assert.Equal(t, "a", got[1].ID)

	// Upsert updates in place.
	expenses[0].Amount = 15
	require.NoError(t, s.SaveExpenses(ctx, expenses[:1]))
	got, err = s.GetExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 15.0, got[1].Amount)

	require.NoError(t, s.DeleteExpense(ctx, "a"))
	got, err = s.GetExpenses(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	assert.Error(t, s.DeleteExpense(ctx, "missing"))
}

func TestSQLiteStorage_HistoryRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	entries := []model.ExportHistoryEntry{
		testEntry("newer", base.Add(time.Hour)),
		testEntry("older", base),
	}
	entries[0].TemplateName = "Tax Report"

	require.NoError(t, s.SaveHistory(ctx, entries))

	got, err := s.GetHistory(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "newer", got[0].ID)
	assert.Equal(t, "Tax Report", got[0].TemplateName)
	assert.Empty(t, got[1].TemplateName)
	assert.Equal(t, model.StatusCompleted, got[0].Status)
}

func TestSQLiteStorage_HistoryTruncatesAtLimit(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var entries []model.ExportHistoryEntry
	for i := 0; i < 60; i++ {
		entries = append(entries, testEntry(
			fmt.Sprintf("entry-%02d", i),
			base.Add(time.Duration(-i)*time.Hour)))
	}

	require.NoError(t, s.SaveHistory(ctx, entries))

	got, err := s.GetHistory(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 50)
}

func TestSQLiteStorage_HistoryEmptyIsNotAnError(t *testing.T) {
	s := newTestStorage(t)

	got, err := s.GetHistory(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteStorage_ClearHistory(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveHistory(ctx, []model.ExportHistoryEntry{
		testEntry("x", time.Now()),
	}))
	require.NoError(t, s.ClearHistory(ctx))

	got, err := s.GetHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteStorage_SaveHistoryValidatesEntries(t *testing.T) {
	s := newTestStorage(t)

	err := s.SaveHistory(context.Background(), []model.ExportHistoryEntry{{}})
	require.Error(t, err)
}

func TestSQLiteStorage_Schedules(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	now := time.Date(2024, 3, 15, 2, 0, 0, 0, time.UTC)
	schedules := []model.ScheduledBackup{
		{
			ID:          "s1",
			Frequency:   model.FrequencyWeekly,
			Destination: "local",
			Format:      model.FormatCSV,
			Enabled:     true,
			NextRun:     now,
			CreatedAt:   now.Add(-24 * time.Hour),
		},
		{
			ID:          "s2",
			Frequency:   model.FrequencyMonthly,
			Destination: "google-sheets",
			Format:      model.FormatJSON,
			Enabled:     false,
			NextRun:     now.AddDate(0, 1, 0),
			LastRun:     now.AddDate(0, -1, 0),
			CreatedAt:   now,
		},
	}

	require.NoError(t, s.SaveSchedules(ctx, schedules))

	got, err := s.GetSchedules(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.FrequencyWeekly, got[0].Frequency)
	assert.True(t, got[0].LastRun.IsZero())
	assert.False(t, got[1].Enabled)
	assert.False(t, got[1].LastRun.IsZero())

	// Replace wholesale.
	require.NoError(t, s.SaveSchedules(ctx, schedules[:1]))
	got, err = s.GetSchedules(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSQLiteStorage_IntegrationStates(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	states, err := s.GetIntegrationStates(ctx)
	require.NoError(t, err)
	assert.Empty(t, states)

	require.NoError(t, s.SetIntegrationState(ctx, "google-sheets", true))
	require.NoError(t, s.SetIntegrationState(ctx, "dropbox", false))
	require.NoError(t, s.SetIntegrationState(ctx, "google-sheets", true))

	states, err = s.GetIntegrationStates(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"google-sheets": true, "dropbox": false}, states)

	require.NoError(t, s.SetIntegrationState(ctx, "google-sheets", false))
	states, err = s.GetIntegrationStates(ctx)
	require.NoError(t, err)
	assert.False(t, states["google-sheets"])
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("")
	assert.Error(t, err)
}
