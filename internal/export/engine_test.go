package export

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/outlay-cli/outlay/internal/common"
	"github.com/outlay-cli/outlay/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHistoryStore is an in-memory HistoryStore for engine tests.
type fakeHistoryStore struct {
	mu      sync.Mutex
	entries []model.ExportHistoryEntry
	loadErr error
	saveErr error
}

func (f *fakeHistoryStore) GetHistory(_ context.Context) ([]model.ExportHistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	out := make([]model.ExportHistoryEntry, len(f.entries))
	copy(out, f.entries)
	return out, nil
}

func (f *fakeHistoryStore) SaveHistory(_ context.Context, entries []model.ExportHistoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.entries = make([]model.ExportHistoryEntry, len(entries))
	copy(f.entries, entries)
	return nil
}

func (f *fakeHistoryStore) ClearHistory(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = nil
	return nil
}

func testEngine(history *fakeHistoryStore) *Engine {
	return NewEngine(history, nil, WithClock(func() time.Time { return generatedAt }))
}

func TestEngine_Export_ConcreteScenario(t *testing.T) {
	engine := testEngine(nil)

	expenses := []model.Expense{
		{Date: "2024-01-05", Category: model.CategoryFood, Amount: 12.50, Description: "Lunch"},
		{Date: "2024-02-10", Category: model.CategoryBills, Amount: 100, Description: "Electric, bill"},
	}

	result, err := engine.Export(context.Background(), expenses, Options{
		Format: model.FormatCSV,
	})
	require.NoError(t, err)

	want := "Date,Category,Amount,Description\n" +
		`2024-02-10,Bills,100.00,"Electric, bill"` + "\n" +
		"2024-01-05,Food,12.50,Lunch"
	assert.Equal(t, want, result.Content)
	assert.Equal(t, 2, result.RecordCount)
	assert.InDelta(t, 112.50, result.TotalAmount, 1e-9)
	assert.Equal(t, "expenses.csv", result.Filename)
	assert.Equal(t, MediaTypeCSV, result.MediaType)
}

func TestEngine_Export_AppliesFilters(t *testing.T) {
	engine := testEngine(nil)

	result, err := engine.Export(context.Background(), sampleExpenses(), Options{
		Format:     model.FormatCSV,
		Filename:   "report",
		DateFrom:   "2024-02-01",
		Categories: []model.Category{model.CategoryFood},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.RecordCount)
	assert.InDelta(t, 8.25, result.TotalAmount, 1e-9)
	assert.Contains(t, result.Content, "Coffee")
	assert.NotContains(t, result.Content, "Electric")
}

func TestEngine_Export_UnsupportedFormat(t *testing.T) {
	engine := testEngine(nil)

	result, err := engine.Export(context.Background(), sampleExpenses(), Options{Format: "xlsx"})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
	assert.Nil(t, result)
}

func TestEngine_Export_EmptyInputSucceeds(t *testing.T) {
	engine := testEngine(nil)

	for _, format := range []model.Format{model.FormatCSV, model.FormatJSON, model.FormatPDF} {
		result, err := engine.Export(context.Background(), nil, Options{Format: format})
		require.NoError(t, err, "format %s", format)
		assert.Equal(t, 0, result.RecordCount, "format %s", format)
		assert.Zero(t, result.TotalAmount, "format %s", format)
		assert.NotEmpty(t, result.Content, "format %s", format)
	}
}

func TestEngine_Export_Deterministic(t *testing.T) {
	engine := testEngine(nil)
	opts := Options{Format: model.FormatJSON, Filename: "snapshot"}

	first, err := engine.Export(context.Background(), sampleExpenses(), opts)
	require.NoError(t, err)
	second, err := engine.Export(context.Background(), sampleExpenses(), opts)
	require.NoError(t, err)

	assert.Equal(t, first.Content, second.Content)
	assert.Equal(t, first.Filename, second.Filename)
}

func TestEngine_Run_RecordsHistory(t *testing.T) {
	history := &fakeHistoryStore{}
	engine := testEngine(history)

	outcome, err := engine.Run(context.Background(), sampleExpenses(), RunOptions{
		Format:      model.FormatCSV,
		Filename:    "backup",
		Destination: "Local Download",
	})
	require.NoError(t, err)

	require.Len(t, history.entries, 1)
	entry := history.entries[0]
	assert.Equal(t, model.StatusCompleted, entry.Status)
	assert.Equal(t, "Local Download", entry.Destination)
	assert.Equal(t, "backup.csv", entry.Filename)
	assert.Equal(t, 4, entry.RecordCount)
	assert.Equal(t, outcome.Entry.ID, entry.ID)
	assert.NotEmpty(t, entry.ID)
}

func TestEngine_Run_PrependsAndTruncates(t *testing.T) {
	history := &fakeHistoryStore{}
	engine := testEngine(history)

	for i := 0; i < 55; i++ {
		_, err := engine.Run(context.Background(), sampleExpenses(), RunOptions{
			Format:      model.FormatCSV,
			Destination: "Local Download",
		})
		require.NoError(t, err)
	}

	assert.Len(t, history.entries, 50)
}

func TestEngine_Run_TwoRunsTwoEntries(t *testing.T) {
	history := &fakeHistoryStore{}
	engine := testEngine(history)

	opts := RunOptions{Format: model.FormatJSON, Destination: "Local Download"}
	first, err := engine.Run(context.Background(), sampleExpenses(), opts)
	require.NoError(t, err)
	second, err := engine.Run(context.Background(), sampleExpenses(), opts)
	require.NoError(t, err)

	assert.Equal(t, first.Result.Content, second.Result.Content)
	assert.NotEqual(t, first.Entry.ID, second.Entry.ID)
	assert.Len(t, history.entries, 2)
}

func TestEngine_Run_UnsupportedFormatWritesNoHistory(t *testing.T) {
	history := &fakeHistoryStore{}
	engine := testEngine(history)

	outcome, err := engine.Run(context.Background(), sampleExpenses(), RunOptions{Format: "docx"})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
	assert.Nil(t, outcome)
	assert.Empty(t, history.entries)
}

func TestEngine_Run_Templates(t *testing.T) {
	tests := []struct {
		name        string
		templateID  string
		wantFormat  model.Format
		wantRecords int
	}{
		{
			name:        "full export keeps everything",
			templateID:  "full-export",
			wantFormat:  model.FormatCSV,
			wantRecords: 4,
		},
		{
			name:        "tax report keeps deductible categories",
			templateID:  "tax-report",
			wantFormat:  model.FormatPDF,
			wantRecords: 3, // Food x2 + Bills; Shopping excluded
		},
		{
			name:        "monthly summary keeps current month",
			templateID:  "monthly-summary",
			wantFormat:  model.FormatCSV,
			wantRecords: 2, // clock pinned to 2024-03
		},
		{
			name:        "category analysis is json",
			templateID:  "category-analysis",
			wantFormat:  model.FormatJSON,
			wantRecords: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history := &fakeHistoryStore{}
			engine := testEngine(history)

			outcome, err := engine.Run(context.Background(), sampleExpenses(), RunOptions{
				TemplateID:  tt.templateID,
				Destination: "Local Download",
			})
			require.NoError(t, err)

			assert.Equal(t, tt.wantRecords, outcome.Result.RecordCount)
			assert.Equal(t, tt.wantFormat, outcome.Entry.Format)
			assert.NotEmpty(t, outcome.Entry.TemplateName)
		})
	}
}

func TestEngine_Run_UnknownTemplate(t *testing.T) {
	engine := testEngine(&fakeHistoryStore{})

	_, err := engine.Run(context.Background(), sampleExpenses(), RunOptions{TemplateID: "quarterly"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quarterly")
}

func TestEngine_Run_HistoryWriteFailureKeepsResult(t *testing.T) {
	history := &fakeHistoryStore{saveErr: errors.New("disk full")}
	engine := testEngine(history)

	outcome, err := engine.Run(context.Background(), sampleExpenses(), RunOptions{
		Format:      model.FormatCSV,
		Destination: "Local Download",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrStorageWrite)
	require.NotNil(t, outcome, "a failed history write must not discard the export")
	assert.Equal(t, 4, outcome.Result.RecordCount)
}

func TestEngine_Run_HistoryReadFailureStartsFresh(t *testing.T) {
	history := &fakeHistoryStore{loadErr: errors.New("corrupt")}
	engine := testEngine(history)

	_, err := engine.Run(context.Background(), sampleExpenses(), RunOptions{
		Format:      model.FormatCSV,
		Destination: "Local Download",
	})
	require.NoError(t, err)
}

func TestEngine_Run_ConcurrentRunsAllRecorded(t *testing.T) {
	history := &fakeHistoryStore{}
	engine := testEngine(history)

	const runs = 10
	var wg sync.WaitGroup
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.Run(context.Background(), sampleExpenses(), RunOptions{
				Format:      model.FormatCSV,
				Destination: "Local Download",
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, history.entries, runs)
}

func TestBuildFilename(t *testing.T) {
	tests := []struct {
		requested string
		format    model.Format
		want      string
	}{
		{"report.old", model.FormatCSV, "report.csv"},
		{"", model.FormatJSON, "expenses.json"},
		{"my-expenses", model.FormatCSV, "my-expenses.csv"},
		{"backup.csv", model.FormatJSON, "backup.json"},
		{"report", model.FormatPDF, "report.html"},
		{".json", model.FormatCSV, "expenses.csv"},
	}

	for _, tt := range tests {
		if got := BuildFilename(tt.requested, tt.format); got != tt.want {
			t.Errorf("BuildFilename(%q, %s) = %q, want %q", tt.requested, tt.format, got, tt.want)
		}
	}
}

func TestDefaultFilename(t *testing.T) {
	if got := DefaultFilename(generatedAt); got != "expenses-2024-03-15" {
		t.Errorf("DefaultFilename() = %q", got)
	}
}
