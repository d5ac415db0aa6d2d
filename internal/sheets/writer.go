package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/outlay-cli/outlay/internal/common"
	"github.com/outlay-cli/outlay/internal/model"
	"github.com/outlay-cli/outlay/internal/report"
	"github.com/outlay-cli/outlay/internal/service"
)

const reportSheetName = "Expenses"

// Writer pushes expense reports into a Google Sheets spreadsheet. It
// implements service.ReportSink.
type Writer struct {
	config  Config
	service *sheets.Service
	logger  *slog.Logger
}

// NewWriter creates a Writer from the given config. It authenticates
// immediately so misconfiguration surfaces before any export runs.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	svc, err := newSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &Writer{
		config:  config,
		service: svc,
		logger:  logger,
	}, nil
}

func newSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	if config.ServiceAccountPath != "" {
		data, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("reading service account file: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, data, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("parsing service account credentials: %w", err)
		}
		return sheets.NewService(ctx, option.WithCredentials(creds))
	}

	oauthConfig := &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{sheets.SpreadsheetsScope},
	}
	token := &oauth2.Token{RefreshToken: config.RefreshToken}
	client := oauthConfig.Client(ctx, token)

	return sheets.NewService(ctx, option.WithHTTPClient(client))
}

// Write replaces the report sheet's contents with the given expenses and
// summary. The spreadsheet is created on first use when no ID is configured.
func (w *Writer) Write(ctx context.Context, expenses []model.Expense, summary *service.ExportSummary) error {
	if summary == nil {
		return fmt.Errorf("%w: summary is required", common.ErrInvalidConfig)
	}

	spreadsheetID, err := w.ensureSpreadsheet(ctx)
	if err != nil {
		return err
	}

	if err := w.clearSheet(ctx, spreadsheetID); err != nil {
		return err
	}

	rows := w.buildRows(expenses, summary)
	if err := w.writeRows(ctx, spreadsheetID, rows); err != nil {
		return err
	}

	w.logger.Info("wrote expense report to spreadsheet",
		"spreadsheet_id", spreadsheetID,
		"records", summary.RecordCount,
	)
	return nil
}

// ensureSpreadsheet returns the configured spreadsheet ID, creating a new
// spreadsheet when none is configured.
func (w *Writer) ensureSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		return w.config.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{
				Properties: &sheets.SheetProperties{
					Title: reportSheetName,
				},
			},
		},
	}

	var created *sheets.Spreadsheet
	err := common.WithRetry(ctx, func() error {
		var err error
		created, err = w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
		if err != nil {
			return common.NewRetryableError(err, true)
		}
		return nil
	}, w.retryOptions())
	if err != nil {
		return "", fmt.Errorf("creating spreadsheet: %w", err)
	}

	w.config.SpreadsheetID = created.SpreadsheetId
	w.logger.Info("created spreadsheet", "spreadsheet_id", created.SpreadsheetId)
	return created.SpreadsheetId, nil
}

func (w *Writer) clearSheet(ctx context.Context, spreadsheetID string) error {
	clearRange := fmt.Sprintf("%s!A:Z", reportSheetName)
	err := common.WithRetry(ctx, func() error {
		_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).
			Context(ctx).Do()
		if err != nil {
			return common.NewRetryableError(err, true)
		}
		return nil
	}, w.retryOptions())
	if err != nil {
		return fmt.Errorf("clearing sheet: %w", err)
	}
	return nil
}

// buildRows lays out the report: a summary header, a category breakdown, and
// then one row per expense.
func (w *Writer) buildRows(expenses []model.Expense, summary *service.ExportSummary) [][]interface{} {
	rows := [][]interface{}{
		{"Expense Report"},
		{"Generated", summary.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Records", summary.RecordCount},
		{"Total", report.FormatCurrency(summary.TotalAmount)},
		{},
		{"Category", "Total"},
	}

	for _, ct := range summary.ByCategory {
		rows = append(rows, []interface{}{string(ct.Category), report.FormatCurrency(ct.Total)})
	}

	rows = append(rows,
		[]interface{}{},
		[]interface{}{"Date", "Category", "Amount", "Description"},
	)
	for _, e := range expenses {
		rows = append(rows, []interface{}{e.Date, string(e.Category), e.Amount, e.Description})
	}

	return rows
}

// writeRows writes rows in batches to stay under API payload limits.
func (w *Writer) writeRows(ctx context.Context, spreadsheetID string, rows [][]interface{}) error {
	for start := 0; start < len(rows); start += w.config.BatchSize {
		end := start + w.config.BatchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		writeRange := fmt.Sprintf("%s!A%d", reportSheetName, start+1)
		valueRange := &sheets.ValueRange{Values: batch}

		err := common.WithRetry(ctx, func() error {
			_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, writeRange, valueRange).
				ValueInputOption("USER_ENTERED").
				Context(ctx).Do()
			if err != nil {
				return common.NewRetryableError(err, true)
			}
			return nil
		}, w.retryOptions())
		if err != nil {
			return fmt.Errorf("writing rows %d-%d: %w", start+1, end, err)
		}

		w.logger.Debug("wrote batch", "start", start+1, "end", end)
	}
	return nil
}

func (w *Writer) retryOptions() service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
	}
}

// SpreadsheetURL returns the browser URL for the configured spreadsheet.
func (w *Writer) SpreadsheetURL() string {
	if w.config.SpreadsheetID == "" {
		return ""
	}
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s", w.config.SpreadsheetID)
}
