package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/outlay-cli/outlay/internal/cli"
	"github.com/outlay-cli/outlay/internal/model"
	"github.com/outlay-cli/outlay/internal/report"
)

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <amount> <description>",
		Short: "Record a new expense",
		Long: `Record a new expense in the ledger.

Examples:
  # A categorized expense for today
  outlay add 12.50 "Lunch at the deli" --category Food

  # Backdated
  outlay add 89.99 "Running shoes" --category Shopping --date 2024-03-01`,
		Args: cobra.ExactArgs(2),
		RunE: runAdd,
	}

	cmd.Flags().StringP("category", "c", string(model.CategoryOther), "Expense category")
	cmd.Flags().StringP("date", "d", "", "Expense date (YYYY-MM-DD, default today)")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[0], err)
	}

	categoryFlag, _ := cmd.Flags().GetString("category")
	category, err := model.ParseCategory(categoryFlag)
	if err != nil {
		return err
	}

	now := time.Now()
	date, _ := cmd.Flags().GetString("date")
	if date == "" {
		date = now.Format("2006-01-02")
	}

	expense := model.Expense{
		ID:          model.NewID(now),
		Amount:      amount,
		Category:    category,
		Description: args[1],
		Date:        date,
		CreatedAt:   now.UTC(),
	}

	if err := expense.Validate(now); err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveExpenses(ctx, []model.Expense{expense}); err != nil {
		return fmt.Errorf("failed to save expense: %w", err)
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Recorded %s for %s (%s)",
		report.FormatCurrency(expense.Amount), expense.Description, expense.Category)))

	return nil
}
