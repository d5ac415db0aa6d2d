package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/outlay-cli/outlay/internal/cli"
	"github.com/outlay-cli/outlay/internal/export"
	"github.com/outlay-cli/outlay/internal/model"
	"github.com/outlay-cli/outlay/internal/schedule"
)

func scheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Manage scheduled backups",
		Long: `Manage recurring exports. Schedules run daily, weekly (Sunday), or
monthly (the 1st), always at 02:00 local time.`,
		RunE: runScheduleList,
	}

	addCmd := &cobra.Command{
		Use:   "add <frequency>",
		Short: "Add a scheduled backup (daily, weekly, monthly)",
		Args:  cobra.ExactArgs(1),
		RunE:  runScheduleAdd,
	}
	addCmd.Flags().StringP("format", "f", "csv", "Export format (csv, json, pdf)")
	addCmd.Flags().String("destination", "local", "Destination (local or an integration id)")

	cmd.AddCommand(addCmd)
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List scheduled backups",
		RunE:  runScheduleList,
	})
	cmd.AddCommand(scheduleToggleCmd("enable", true))
	cmd.AddCommand(scheduleToggleCmd("disable", false))

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run due backups now, or keep running with --daemon",
		RunE:  runScheduleRun,
	}
	runCmd.Flags().Bool("daemon", false, "Keep running and fire schedules as they come due")
	runCmd.Flags().String("dir", ".", "Directory for local backup files")
	cmd.AddCommand(runCmd)

	return cmd
}

func runScheduleAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	formatFlag, _ := cmd.Flags().GetString("format")
	destination, _ := cmd.Flags().GetString("destination")

	format, err := parseFormat(formatFlag)
	if err != nil {
		return err
	}

	backup, err := schedule.NewBackup(model.Frequency(args[0]), destination, format, time.Now())
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	schedules, err := store.GetSchedules(ctx)
	if err != nil {
		return fmt.Errorf("failed to load schedules: %w", err)
	}
	schedules = append(schedules, backup)

	if err := store.SaveSchedules(ctx, schedules); err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Scheduled %s %s backup to %s; next run %s",
		backup.Frequency, backup.Format, backup.Destination,
		backup.NextRun.Format("2006-01-02 15:04"))))

	return nil
}

func runScheduleList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	schedules, err := store.GetSchedules(ctx)
	if err != nil {
		return fmt.Errorf("failed to load schedules: %w", err)
	}

	if len(schedules) == 0 {
		slog.Info(cli.FormatWarning("No scheduled backups. Add one with 'outlay schedule add'."))
		return nil
	}

	var b strings.Builder
	header := fmt.Sprintf("%-22s %-9s %-6s %-14s %-9s %s",
		"ID", "Frequency", "Fmt", "Destination", "Enabled", "Next Run")
	b.WriteString(cli.TableHeaderStyle.Render(header))
	b.WriteString("\n")

	for _, s := range schedules {
		enabled := cli.SuccessIcon
		if !s.Enabled {
			enabled = cli.ErrorIcon
		}
		row := fmt.Sprintf("%-22s %-9s %-6s %-14s %-9s %s",
			s.ID, s.Frequency, s.Format, s.Destination, enabled,
			s.NextRun.Local().Format("2006-01-02 15:04"))
		b.WriteString(cli.TableCellStyle.Render(row))
		b.WriteString("\n")
	}

	fmt.Println(b.String())
	return nil
}

func scheduleToggleCmd(name string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <id>",
		Short: strings.ToUpper(name[:1]) + name[1:] + " a scheduled backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			schedules, err := store.GetSchedules(ctx)
			if err != nil {
				return fmt.Errorf("failed to load schedules: %w", err)
			}

			found := false
			for i := range schedules {
				if schedules[i].ID == args[0] {
					schedules[i].Enabled = enabled
					if enabled {
						next, err := schedule.NextRun(schedules[i].Frequency, time.Now())
						if err != nil {
							return err
						}
						schedules[i].NextRun = next
					}
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("no schedule with id %q", args[0])
			}

			if err := store.SaveSchedules(ctx, schedules); err != nil {
				return fmt.Errorf("failed to save schedules: %w", err)
			}

			slog.Info(cli.FormatSuccess(fmt.Sprintf("Schedule %s %sd", args[0], name)))
			return nil
		},
	}
}

func runScheduleRun(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	daemon, _ := cmd.Flags().GetBool("daemon")
	dir, _ := cmd.Flags().GetString("dir")

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	sink, err := buildSheetsSink(ctx)
	if err != nil {
		slog.Warn("Google Sheets destination unavailable", "error", err)
	}

	engine := export.NewEngine(store, slog.Default())
	runner := schedule.NewRunner(store, engine, sink, expandPath(dir), slog.Default())

	if daemon {
		slog.Info(cli.FormatTitle("Running scheduled backups; press Ctrl-C to stop"))
		return runner.Start(ctx)
	}

	ran, err := runner.RunDue(ctx)
	if err != nil {
		return err
	}
	if ran == 0 {
		slog.Info(cli.FormatWarning("No backups were due"))
	} else {
		slog.Info(cli.FormatSuccess(fmt.Sprintf("Ran %d backup(s)", ran)))
	}
	return nil
}

