package cli

import (
	"github.com/alexanderramin/attend/internal/cli/formatter"
	"github.com/alexanderramin/attend/internal/service"
	"github.com/alexanderramin/attend/internal/timeutil"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// App holds the services and run settings used by CLI commands.
type App struct {
	Presence service.PresenceService
	Config   service.ConfigService
	Viewers  service.ViewerService
	Reports  service.ReportService

	Calendar  timeutil.Calendar
	Directory formatter.Directory
	Logger    zerolog.Logger

	// Group and User are the defaults for --group and --user.
	Group string
	User  string
	// MetricsAddr is the default for watch --metrics-addr.
	MetricsAddr string

	// IsInteractive reports whether stdin is a terminal. Nil means no.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "attend" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	// Flags bind to a copy; the caller's App is never mutated.
	run := *app
	app = &run

	root := &cobra.Command{
		Use:           "attend",
		Short:         "Presence tracking and billable time reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// --config is read by main before the App exists; it is declared here so
	// cobra accepts it and lists it in help.
	root.PersistentFlags().String("config", "", "Config file (YAML)")
	root.PersistentFlags().StringVar(&app.Group, "group", app.Group, "Group (workspace) id")
	root.PersistentFlags().StringVar(&app.User, "user", app.User, "User id")

	root.AddCommand(
		newCheckInCmd(app),
		newCheckOutCmd(app),
		newVoiceCmd(app),
		newOpenCmd(app),
		newScheduleCmd(app),
		newBreakCmd(app),
		newViewerCmd(app),
		newReportCmd(app),
		newWatchCmd(app),
	)

	return root
}
