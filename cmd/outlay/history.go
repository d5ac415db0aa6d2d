package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/outlay-cli/outlay/internal/cli"
	"github.com/outlay-cli/outlay/internal/report"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the export history log",
		RunE:  runHistory,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Clear the export history log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.ClearHistory(ctx); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}

			slog.Info(cli.FormatSuccess("Export history cleared"))
			return nil
		},
	})

	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entries, err := store.GetHistory(ctx)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if len(entries) == 0 {
		slog.Info(cli.FormatWarning("No exports recorded yet"))
		return nil
	}

	var b strings.Builder
	header := fmt.Sprintf("%-17s %-5s %-10s %7s %11s  %s",
		"When", "Fmt", "Status", "Records", "Total", "Destination")
	b.WriteString(cli.TableHeaderStyle.Render(header))
	b.WriteString("\n")

	for _, e := range entries {
		destination := e.Destination
		if e.TemplateName != "" {
			destination = fmt.Sprintf("%s (%s)", destination, e.TemplateName)
		}
		row := fmt.Sprintf("%-17s %-5s %-10s %7d %11s  %s",
			e.Timestamp.Local().Format("2006-01-02 15:04"),
			e.Format,
			e.Status,
			e.RecordCount,
			report.FormatCurrency(e.TotalAmount),
			destination)
		b.WriteString(cli.TableCellStyle.Render(row))
		b.WriteString("\n")
	}

	fmt.Println(b.String())
	return nil
}
