package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/cmlabs-hris/overtime-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/overtime-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/overtime-backend-go/internal/pkg/storage"
	"github.com/spf13/cobra"
)

type app struct {
	service overtime.Service
	files   storage.FileStorage
	workers int
	close   func()
}

type opener func(ctx context.Context) (*app, error)

func newRootCmd(open opener) *cobra.Command {
	var a *app

	cmd := &cobra.Command{
		Use:           "recap",
		Short:         "Attendance reconciliation and overtime recap",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = open(cmd.Context())
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a != nil && a.close != nil {
				a.close()
			}
		},
	}
	cmd.Version = appVersion
	cmd.SetVersionTemplate("recap v{{.Version}}\n")

	service := func() overtime.Service { return a.service }

	cmd.AddCommand(
		newImportCmd(service),
		newMonthsCmd(service),
		newEmployeesCmd(service),
		newRecapCmd(service),
		newExportCmd(service),
		newCalcCmd(service),
		newClearCmd(service),
		newArchiveCmd(func() *app { return a }),
	)
	return cmd
}

func newImportCmd(service func() overtime.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Import a scan-log text file (stdin when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			data, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			resp, err := service().ImportText(cmd.Context(), overtime.ImportTextRequest{Text: string(data)})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Batch:    %s\n", resp.BatchID)
			fmt.Fprintf(out, "Accepted: %d\n", resp.Accepted)
			fmt.Fprintf(out, "Rejected: %d\n", len(resp.Rejected))
			fmt.Fprintf(out, "Skipped:  %d\n", resp.SkippedLines)
			fmt.Fprintf(out, "Records:  %d\n", resp.TotalRecords)
			for _, rej := range resp.Rejected {
				fmt.Fprintf(out, "  #%d %s %s %s: %s\n", rej.Index, rej.Observation.Name, rej.Observation.Date, rej.Observation.Time, rej.Reason)
			}
			return nil
		},
	}
}

func newMonthsCmd(service func() overtime.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "months",
		Short: "List months with attendance data, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			months, err := service().ListMonths(cmd.Context())
			if err != nil {
				return err
			}
			for _, m := range months {
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
			return nil
		},
	}
}

func newEmployeesCmd(service func() overtime.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "employees <month>",
		Short: "List employees of a month with their overtime totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries, err := service().ListEmployees(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tDAYS\tABSENT\tOVERTIME")
			for _, s := range summaries {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", s.Name, s.DaysRecorded, s.DaysAbsent, s.TotalDisplay)
			}
			return tw.Flush()
		},
	}
}

func newRecapCmd(service func() overtime.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "recap <month> <name>",
		Short: "Show the daily breakdown of one employee",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			recap, err := service().GetMonthlyRecap(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s, %s\n\n", recap.Name, recap.Month)

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tDAY\tIN\tOUT\tOWED\tOVERTIME")
			for _, row := range recap.Rows {
				overtimeCell := row.Display
				if row.Kind != overtime.RowPresent {
					overtimeCell = row.Note
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", row.Date, row.Weekday, row.ClockIn, row.ClockOut, row.OwedDisplay, overtimeCell)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(out, "\nTotal overtime: %s\n", recap.Summary.TotalDisplay)
			return nil
		},
	}
}

func newExportCmd(service func() overtime.Service) *cobra.Command {
	var format, outPath string

	cmd := &cobra.Command{
		Use:   "export <month> <name>",
		Short: "Export a monthly recap as PDF or XLSX",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := service().ExportRecap(cmd.Context(), overtime.ExportRequest{
				Month:  args[0],
				Name:   args[1],
				Format: overtime.ExportFormat(format),
			})
			if err != nil {
				return err
			}

			target := outPath
			if target == "" {
				target = file.Filename
			} else if info, err := os.Stat(target); err == nil && info.IsDir() {
				target = filepath.Join(target, file.Filename)
			}

			if err := os.WriteFile(target, file.Data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", target, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(overtime.ExportPDF), "Export format (pdf or xlsx)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file or directory (default: generated file name)")
	return cmd
}

func newCalcCmd(service func() overtime.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "calc <date> <clock-in> [clock-out]",
		Short: "Calculate overtime for a single day",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := overtime.CalculateRequest{Date: args[0], ClockIn: args[1]}
			if len(args) == 3 {
				req.ClockOut = args[2]
			}

			result, err := service().Calculate(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Status:   %s\n", result.Status)
			fmt.Fprintf(out, "Late:     %d min\n", result.LateMinutes)
			fmt.Fprintf(out, "Owed:     %s\n", result.OwedDisplay)
			fmt.Fprintf(out, "Overtime: %s\n", result.Display)
			return nil
		},
	}
}

func newClearCmd(service func() overtime.Service) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every stored attendance record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear records without --yes")
			}
			if err := service().ClearRecords(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All records cleared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")
	return cmd
}

func newArchiveCmd(current func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "archive [month]",
		Short: "Write every employee's XLSX recap of a month to the archive (previous month when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			jobs := cron.NewRecapJobs(a.service, a.files, a.workers)

			if len(args) == 0 {
				scheduler := cron.NewScheduler(cmd.Context())
				defer scheduler.Stop()
				jobs.RegisterJobs(scheduler, 24*time.Hour)
				if err := scheduler.RunOnce(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Archive job completed")
				return nil
			}

			written, err := jobs.ArchiveMonth(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archived %d recap(s) for %s\n", written, args[0])
			return nil
		},
	}
}
