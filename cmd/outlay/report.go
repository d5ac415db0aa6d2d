package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/outlay-cli/outlay/internal/cli"
	"github.com/outlay-cli/outlay/internal/model"
	"github.com/outlay-cli/outlay/internal/report"
)

const breakdownBarWidth = 24

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show the spending dashboard",
		Long: `Render the spending dashboard: overall totals, the current month,
a per-category breakdown, and the recent monthly trend.`,
		RunE: runReport,
	}
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	expenses, err := store.GetExpenses(ctx)
	if err != nil {
		return fmt.Errorf("failed to load expenses: %w", err)
	}

	if len(expenses) == 0 {
		slog.Info(cli.FormatWarning("No expenses recorded yet. Run 'outlay add' to get started."))
		return nil
	}

	now := time.Now()
	summary := fmt.Sprintf(`Total spending:     %s
This month:         %s
Average expense:    %s
Expenses recorded:  %d`,
		report.FormatCurrency(report.TotalSpending(expenses)),
		report.FormatCurrency(report.CurrentMonthSpending(expenses, now)),
		report.FormatCurrency(report.AverageExpense(expenses)),
		len(expenses))

	fmt.Println(cli.RenderBox(cli.LedgerIcon+" Spending Overview", summary))
	fmt.Println(cli.RenderBox(cli.ChartIcon+" By Category", renderCategoryBreakdown(expenses)))
	fmt.Println(cli.RenderBox(cli.ChartIcon+" Monthly Trend", renderMonthlyTrend(expenses)))

	return nil
}

func renderCategoryBreakdown(expenses []model.Expense) string {
	totals := report.CategoryTotals(expenses)
	if len(totals) == 0 {
		return "No data"
	}

	max := totals[0].Total
	var b strings.Builder
	for i, ct := range totals {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("%-16s %-*s %10s  %5.1f%%",
			fmt.Sprintf("%s %s", model.CategoryIcon(ct.Category), ct.Category),
			breakdownBarWidth, cli.Bar(ct.Total, max, breakdownBarWidth),
			report.FormatCurrency(ct.Total),
			ct.Percentage))
	}
	return b.String()
}

func renderMonthlyTrend(expenses []model.Expense) string {
	totals := report.MonthlyTotals(expenses)
	if len(totals) == 0 {
		return "No data"
	}

	max := 0.0
	for _, mt := range totals {
		if mt.Total > max {
			max = mt.Total
		}
	}

	var b strings.Builder
	for i, mt := range totals {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("%-10s %-*s %10s",
			mt.Label,
			breakdownBarWidth, cli.Bar(mt.Total, max, breakdownBarWidth),
			report.FormatCurrency(mt.Total)))
	}
	return b.String()
}
