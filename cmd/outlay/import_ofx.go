package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/outlay-cli/outlay/internal/cli"
	"github.com/outlay-cli/outlay/internal/model"
	"github.com/outlay-cli/outlay/internal/ofx"
	"github.com/outlay-cli/outlay/internal/report"
)

func init() {
	importOFXCmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import expenses from OFX/QFX bank statements",
		Long: `Import expenses from OFX or QFX (Quicken) files exported from your bank.
Only debits become expenses; deposits and refunds are skipped.

Examples:
  # Import single file
  outlay import-ofx ~/Downloads/chase_jan_2024.qfx

  # Import everything in a directory
  outlay import-ofx ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	importOFXCmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")

	rootCmd.AddCommand(importOFXCmd)
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	// Expand globs and collect all files
	var allFiles []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				allFiles = append(allFiles, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			allFiles = append(allFiles, matches...)
		}
	}

	if len(allFiles) == 0 {
		return fmt.Errorf("no files found to import")
	}

	parser := ofx.NewParser(slog.Default())

	// Content-derived IDs deduplicate across overlapping statements.
	seen := make(map[string]bool)
	var imported []model.Expense

	for _, filePath := range allFiles {
		f, err := os.Open(filePath)
		if err != nil {
			slog.Error("Failed to open file", "file", filePath, "error", err)
			continue
		}

		expenses, err := parser.ParseFile(ctx, f)
		_ = f.Close()
		if err != nil {
			slog.Error("Failed to parse OFX file", "file", filePath, "error", err)
			continue
		}

		added := 0
		for _, e := range expenses {
			if !seen[e.ID] {
				seen[e.ID] = true
				imported = append(imported, e)
				added++
			}
		}

		slog.Info("Processed file", "file", filepath.Base(filePath), "expenses", added)
	}

	if len(imported) == 0 {
		slog.Info(cli.FormatWarning("No new expenses found"))
		return nil
	}

	if dryRun {
		fmt.Println(renderExpenseTable(imported))
		slog.Info(cli.FormatWarning(fmt.Sprintf("Dry run: %d expense(s) totaling %s not saved",
			len(imported), report.FormatCurrency(report.TotalSpending(imported)))))
		return nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveExpenses(ctx, imported); err != nil {
		return fmt.Errorf("failed to save imported expenses: %w", err)
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Imported %d expense(s) totaling %s",
		len(imported), report.FormatCurrency(report.TotalSpending(imported)))))

	return nil
}
