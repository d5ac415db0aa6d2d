package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/outlay-cli/outlay/internal/cli"
	"github.com/outlay-cli/outlay/internal/export"
	"github.com/outlay-cli/outlay/internal/report"
)

func shareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Create a shareable snapshot link",
		Long: `Encode a snapshot of the ledger into a URL-safe token that the web
viewer can decode without any server round trip.`,
		RunE: runShare,
	}

	cmd.Flags().String("from", "", "Earliest date to include (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "Latest date to include (YYYY-MM-DD)")
	cmd.Flags().StringSlice("categories", nil, "Categories to include (default all)")

	cmd.AddCommand(&cobra.Command{
		Use:   "decode <token>",
		Short: "Decode a share token and show its contents",
		Args:  cobra.ExactArgs(1),
		RunE:  runShareDecode,
	})

	return cmd
}

func runShare(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	categoryFlags, _ := cmd.Flags().GetStringSlice("categories")

	categories, err := parseCategories(categoryFlags)
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	expenses, err := store.GetExpenses(ctx)
	if err != nil {
		return fmt.Errorf("failed to load expenses: %w", err)
	}

	selected := export.Filter(expenses, export.Options{
		DateFrom:   from,
		DateTo:     to,
		Categories: categories,
	})

	token, err := export.EncodeShareToken(selected, time.Now())
	if err != nil {
		return fmt.Errorf("failed to encode share token: %w", err)
	}

	origin := viper.GetString("share.origin")
	if origin == "" {
		origin = "https://outlay.app"
	}

	content := fmt.Sprintf(`%d expense(s), %s total

Token:
%s

Link:
%s`,
		len(selected),
		report.FormatCurrency(report.TotalSpending(selected)),
		token,
		export.BuildShareURL(origin, token))

	fmt.Println(cli.RenderBox(cli.LinkIcon+" Share Snapshot", content))
	return nil
}

func runShareDecode(_ *cobra.Command, args []string) error {
	expenses, generatedAt, err := export.DecodeShareToken(args[0])
	if err != nil {
		return err
	}

	slog.Info("decoded share token",
		"generated_at", generatedAt.Format(time.RFC3339),
		"records", len(expenses),
		"total", report.FormatCurrency(report.TotalSpending(expenses)))

	if len(expenses) > 0 {
		fmt.Println(renderExpenseTable(expenses))
	}
	return nil
}
