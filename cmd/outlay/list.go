package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/outlay-cli/outlay/internal/cli"
	"github.com/outlay-cli/outlay/internal/model"
	"github.com/outlay-cli/outlay/internal/report"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded expenses",
		RunE:  runList,
	}

	cmd.Flags().StringP("search", "s", "", "Filter by description substring")
	cmd.Flags().StringP("category", "c", model.FilterAll, "Filter by category")
	cmd.Flags().String("from", "", "Earliest date to include (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "Latest date to include (YYYY-MM-DD)")

	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	search, _ := cmd.Flags().GetString("search")
	category, _ := cmd.Flags().GetString("category")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")

	if category != model.FilterAll {
		if _, err := model.ParseCategory(category); err != nil {
			return err
		}
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

	filters := model.Filters{
		Search:   search,
		Category: category,
		DateFrom: from,
		DateTo:   to,
	}

	var matched []model.Expense
	for _, e := range expenses {
		if filters.Match(e) {
			matched = append(matched, e)
		}
	}

	if len(matched) == 0 {
		slog.Info(cli.FormatWarning("No expenses found"))
		return nil
	}

	fmt.Println(renderExpenseTable(matched))
	fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("%d expense(s), %s total",
		len(matched), report.FormatCurrency(report.TotalSpending(matched)))))

	return nil
}

// renderExpenseTable renders expenses as a fixed-width styled table.
func renderExpenseTable(expenses []model.Expense) string {
	var b strings.Builder

	header := fmt.Sprintf("%-12s %-16s %10s  %s", "Date", "Category", "Amount", "Description")
	b.WriteString(cli.TableHeaderStyle.Render(header))
	b.WriteString("\n")

	for _, e := range expenses {
		row := fmt.Sprintf("%-12s %-16s %10s  %s",
			e.Date,
			fmt.Sprintf("%s %s", model.CategoryIcon(e.Category), e.Category),
			report.FormatCurrency(e.Amount),
			e.Description)
		b.WriteString(cli.TableCellStyle.Render(row))
		b.WriteString("\n")
	}

	return b.String()
}
