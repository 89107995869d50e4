package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderramin/attend/internal/cli/formatter"
	"github.com/alexanderramin/attend/internal/service"
	"github.com/spf13/cobra"
)

func newReportCmd(app *App) *cobra.Command {
	var userFlag, preset, from, to, csvPath, caller string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Billable time per user, channel and day",
		Long: `Aggregate billable time for a period.

--from and --to accept relative offsets (-7d, -12h, -30m), DD/MM/YYYY dates
(--to includes the whole day) and ISO timestamps. Without bounds the report
covers --preset (today, yesterday, week) or the last 24 hours.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := service.ReportRequest{
				Group:  app.Group,
				Preset: preset,
				From:   from,
				To:     to,
			}
			if userFlag != "" {
				req.UserID = &userFlag
			}
			if caller != "" {
				req.Caller = &caller
			}

			rep, err := app.Reports.Build(cmd.Context(), req)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprint(w, formatter.FormatReport(rep, app.Calendar, app.Directory))

			if csvPath == "" {
				return nil
			}
			if rep.Restricted {
				return errors.New("CSV export requires viewer access")
			}
			path, err := writeReportCSV(csvPath, rep, app)
			if err != nil {
				return err
			}
			formatter.Success(w, "Wrote %s", path)
			return nil
		},
	}

	// Shadows the persistent --user: here it filters instead of acting.
	cmd.Flags().StringVar(&userFlag, "user", "", "Only this user (default: everyone)")
	cmd.Flags().StringVar(&preset, "preset", "", "today, yesterday or week")
	cmd.Flags().StringVar(&from, "from", "", "Period start")
	cmd.Flags().StringVar(&to, "to", "", "Period end")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Also export CSV to this file or directory")
	cmd.Flags().StringVar(&caller, "as", "", "Restrict to what this user may see")
	return cmd
}

// writeReportCSV writes into path, or into the default file name when path
// is a directory.
func writeReportCSV(path string, rep *service.Report, app *App) (string, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, formatter.CSVFileName(rep, app.Calendar))
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating csv: %w", err)
	}
	if err := formatter.WriteCSV(f, rep, app.Calendar, app.Directory); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing csv: %w", err)
	}
	return path, nil
}
