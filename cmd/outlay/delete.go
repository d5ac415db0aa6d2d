package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/outlay-cli/outlay/internal/cli"
)

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteExpense(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete expense: %w", err)
			}

			slog.Info(cli.FormatSuccess("Expense deleted"))
			return nil
		},
	}
}
