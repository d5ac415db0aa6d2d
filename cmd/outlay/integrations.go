package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/outlay-cli/outlay/internal/cli"
	"github.com/outlay-cli/outlay/internal/common"
	"github.com/outlay-cli/outlay/internal/model"
	"github.com/outlay-cli/outlay/internal/report"
	"github.com/outlay-cli/outlay/internal/service"
	"github.com/outlay-cli/outlay/internal/sheets"
)

func integrationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "integrations",
		Aliases: []string{"integration"},
		Short:   "Manage export destinations",
		RunE:    runIntegrationsList,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List destinations and their connection state",
		RunE:  runIntegrationsList,
	})
	cmd.AddCommand(integrationToggleCmd("connect", true))
	cmd.AddCommand(integrationToggleCmd("disconnect", false))
	cmd.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Push the current ledger to Google Sheets",
		RunE:  runIntegrationsSync,
	})

	return cmd
}

// integrationStates merges the static registry with persisted connection
// flags. Email needs no setup and stays connected.
func integrationStates(ctx context.Context, store service.IntegrationStore) ([]model.Integration, error) {
	states, err := store.GetIntegrationStates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load integration states: %w", err)
	}

	integrations := model.Integrations()
	for i := range integrations {
		if connected, ok := states[integrations[i].ID]; ok {
			integrations[i].Connected = connected
		}
	}
	return integrations, nil
}

func runIntegrationsList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	integrations, err := integrationStates(ctx, store)
	if err != nil {
		return err
	}

	var b strings.Builder
	for i, integration := range integrations {
		if i > 0 {
			b.WriteString("\n")
		}
		status := cli.SubtleStyle.Render("not connected")
		if integration.Connected {
			status = cli.SuccessStyle.Render(cli.SuccessIcon + " connected")
		}
		b.WriteString(fmt.Sprintf("%-14s %-22s %s\n", integration.ID,
			integration.Name, status))
		b.WriteString(cli.SubtleStyle.Render("  " + integration.Description))
		b.WriteString("\n")
	}

	fmt.Println(cli.RenderBox(cli.CloudIcon+" Integrations", b.String()))
	return nil
}

func integrationToggleCmd(name string, connected bool) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <id>",
		Short: strings.ToUpper(name[:1]) + name[1:] + " a destination",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]

			known := false
			for _, integration := range model.Integrations() {
				if integration.ID == id {
					known = true
					break
				}
			}
			if !known {
				return fmt.Errorf("unknown integration %q", id)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SetIntegrationState(ctx, id, connected); err != nil {
				return fmt.Errorf("failed to update integration: %w", err)
			}

			slog.Info(cli.FormatSuccess(fmt.Sprintf("%s %sed", id, name)))
			return nil
		},
	}
}

func runIntegrationsSync(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	integrations, err := integrationStates(ctx, store)
	if err != nil {
		return err
	}
	for _, integration := range integrations {
		if integration.ID == "google-sheets" && !integration.Connected {
			return fmt.Errorf("%w: google-sheets (run 'outlay integrations connect google-sheets')",
				common.ErrNotConnected)
		}
	}

	sink, err := buildSheetsSink(ctx)
	if err != nil {
		return err
	}
	if sink == nil {
		return fmt.Errorf("%w: no Google Sheets credentials in config", common.ErrMissingConfig)
	}

	expenses, err := store.GetExpenses(ctx)
	if err != nil {
		return fmt.Errorf("failed to load expenses: %w", err)
	}

	summary := &service.ExportSummary{
		GeneratedAt: time.Now().UTC(),
		RecordCount: len(expenses),
		TotalAmount: report.TotalSpending(expenses),
		ByCategory:  report.CategoryTotals(expenses),
	}

	if err := sink.Write(ctx, expenses, summary); err != nil {
		return fmt.Errorf("%w: %v", common.ErrSinkUnavailable, err)
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Synced %d expense(s) to Google Sheets", len(expenses))))
	return nil
}

// buildSheetsSink constructs the Google Sheets destination from config.
// Returns a nil sink without error when sheets is simply not configured.
func buildSheetsSink(ctx context.Context) (service.ReportSink, error) {
	config := sheets.DefaultConfig()
	config.ClientID = viper.GetString("sheets.client_id")
	config.ClientSecret = viper.GetString("sheets.client_secret")
	config.RefreshToken = viper.GetString("sheets.refresh_token")
	config.ServiceAccountPath = expandPath(viper.GetString("sheets.service_account"))
	if id := viper.GetString("sheets.spreadsheet_id"); id != "" {
		config.SpreadsheetID = id
	}
	if name := viper.GetString("sheets.spreadsheet_name"); name != "" {
		config.SpreadsheetName = name
	}

	if config.ServiceAccountPath == "" && config.RefreshToken == "" {
		return nil, nil
	}

	writer, err := sheets.NewWriter(ctx, config, slog.Default())
	if err != nil {
		return nil, err
	}
	return writer, nil
}
