package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/attend/internal/cli/formatter"
	"github.com/alexanderramin/attend/internal/events"
	"github.com/alexanderramin/attend/internal/metrics"
	"github.com/spf13/cobra"
)

func newWatchCmd(app *App) *cobra.Command {
	var file, metricsAddr string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Apply newline-delimited JSON presence events",
		Long: `Read one JSON event per line and apply it:

  {"kind":"voice","user":"u","old_channel":"a","new_channel":"b","at":"2025-03-10T09:00:00-05:00"}
  {"kind":"checkin","user":"u","channel":"desk"}
  {"kind":"checkout","user":"u"}

group and user default to --group and --user. Bad lines are logged and
skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var in io.Reader = cmd.InOrStdin()
			if file != "" && file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("opening events: %w", err)
				}
				defer f.Close()
				in = f
			} else if app.interactive() {
				formatter.Warn(cmd.ErrOrStderr(), "Reading events from the terminal; Ctrl-D to finish")
			}

			if metricsAddr != "" {
				srv := metrics.NewServer(metricsAddr, app.Logger)
				if err := srv.Start(); err != nil {
					return err
				}
				defer func() { _ = srv.Stop() }()
			}

			w := events.NewWatcher(app.Presence, app.Logger, app.Group, app.User)
			stats, err := w.Run(ctx, in)
			fmt.Fprintf(cmd.OutOrStdout(), "%d line(s): %d applied, %d skipped, %d failed\n",
				stats.Lines, stats.Applied, stats.Skipped, stats.Failed)
			if err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "-", "Events file (- for stdin)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", app.MetricsAddr, "Serve /metrics on this address while watching")
	return cmd
}
