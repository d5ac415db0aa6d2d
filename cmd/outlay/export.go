package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/outlay-cli/outlay/internal/cli"
	"github.com/outlay-cli/outlay/internal/common"
	"github.com/outlay-cli/outlay/internal/export"
	"github.com/outlay-cli/outlay/internal/model"
	"github.com/outlay-cli/outlay/internal/report"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export expenses to CSV, JSON, or an HTML report",
		Long: `Export expenses to a file.

Examples:
  # Everything, as CSV
  outlay export --format csv

  # A quarter of Food and Transportation spending, as JSON
  outlay export --format json --from 2024-01-01 --to 2024-03-31 \
    --categories Food,Transportation

  # A named preset
  outlay export --template tax-report --out taxes-2024`,
		RunE: runExport,
	}

	cmd.Flags().StringP("format", "f", "csv", "Export format (csv, json, pdf)")
	cmd.Flags().StringP("out", "o", "", "Output filename (extension added automatically)")
	cmd.Flags().String("from", "", "Earliest date to include (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "Latest date to include (YYYY-MM-DD)")
	cmd.Flags().StringSlice("categories", nil, "Categories to include (default all)")
	cmd.Flags().StringP("template", "t", "", "Export template (full-export, tax-report, monthly-summary, category-analysis)")
	cmd.Flags().String("dir", ".", "Directory to write the export into")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	formatFlag, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	categoryFlags, _ := cmd.Flags().GetStringSlice("categories")
	templateID, _ := cmd.Flags().GetString("template")
	dir, _ := cmd.Flags().GetString("dir")

	// A template supplies its own format unless --format is given explicitly.
	var format model.Format
	if templateID == "" || cmd.Flags().Changed("format") {
		parsed, err := parseFormat(formatFlag)
		if err != nil {
			return err
		}
		format = parsed
	}
	categories, err := parseCategories(categoryFlags)
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	bar := progressbar.NewOptions(3,
		progressbar.OptionSetDescription("Exporting"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
	)

	expenses, err := store.GetExpenses(ctx)
	if err != nil {
		return fmt.Errorf("failed to load expenses: %w", err)
	}
	_ = bar.Add(1)

	selected := export.Filter(expenses, export.Options{
		DateFrom:   from,
		DateTo:     to,
		Categories: categories,
	})

	if out == "" {
		out = export.DefaultFilename(time.Now())
	}

	engine := export.NewEngine(store, slog.Default(), export.WithPacing(func(ctx context.Context) error {
		return ctx.Err()
	}))

	outcome, err := engine.Run(ctx, selected, export.RunOptions{
		Format:      format,
		Filename:    out,
		Destination: "Local Download",
		TemplateID:  templateID,
	})
	if err != nil {
		// A history write failure should not discard a finished export.
		if outcome == nil || !errors.Is(err, common.ErrStorageWrite) {
			return err
		}
		slog.Warn("export succeeded but history was not recorded", "error", err)
	}
	_ = bar.Add(1)

	path := filepath.Join(dir, outcome.Result.Filename)
	if err := os.WriteFile(path, []byte(outcome.Result.Content), 0o600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	_ = bar.Add(1)

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Exported %d expense(s) totaling %s to %s",
		outcome.Result.RecordCount,
		report.FormatCurrency(outcome.Result.TotalAmount),
		path)))

	return nil
}
