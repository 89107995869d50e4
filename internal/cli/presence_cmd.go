package cli

import (
	"fmt"

	"github.com/alexanderramin/attend/internal/cli/formatter"
	"github.com/alexanderramin/attend/internal/domain"
	"github.com/alexanderramin/attend/internal/service"
	"github.com/spf13/cobra"
)

func newCheckInCmd(app *App) *cobra.Command {
	var (
		channel string
		at      instantValue
	)

	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Start a manual session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.Presence.CheckIn(cmd.Context(), app.Group, app.User, channel, at.t)
			if err != nil {
				return err
			}
			formatter.Success(cmd.OutOrStdout(), "Checked in %s at %s (%s)",
				app.User, app.Calendar.FormatTime(sess.StartedAt), sess.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&channel, "channel", "", "Channel to bill the session to (default: manual)")
	cmd.Flags().Var(&at, "at", "Check-in time (RFC3339, default now)")
	return cmd
}

func newCheckOutCmd(app *App) *cobra.Command {
	var at instantValue

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Close every open session of the user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := app.Presence.CheckOut(cmd.Context(), app.Group, app.User, at.t)
			if err != nil {
				return err
			}
			if n == 0 {
				formatter.Warn(cmd.OutOrStdout(), "No open sessions for %s", app.User)
				return nil
			}
			formatter.Success(cmd.OutOrStdout(), "Closed %d session(s) for %s", n, app.User)
			return nil
		},
	}

	cmd.Flags().Var(&at, "at", "Check-out time (RFC3339, default now)")
	return cmd
}

func newVoiceCmd(app *App) *cobra.Command {
	var (
		oldChannel, newChannel string
		at                     instantValue
	)

	cmd := &cobra.Command{
		Use:   "voice",
		Short: "Record a voice channel transition (join, switch or leave)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := service.VoiceTransition{
				Group:      app.Group,
				User:       app.User,
				OldChannel: oldChannel,
				NewChannel: newChannel,
				At:         at.t,
			}

			out, err := app.Presence.HandleVoice(cmd.Context(), t)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			switch out.Action {
			case service.VoiceJoin:
				formatter.Success(w, "Joined %s", newChannel)
			case service.VoiceSwitch:
				formatter.Success(w, "Switched %s → %s", oldChannel, newChannel)
			case service.VoiceLeave:
				formatter.Success(w, "Left %s (closed %d session(s))", oldChannel, out.Closed)
			default:
				formatter.Warn(w, "Nothing to record")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&oldChannel, "old", "", "Channel the user was in")
	cmd.Flags().StringVar(&newChannel, "new", "", "Channel the user is in now")
	cmd.Flags().Var(&at, "at", "Transition time (RFC3339, default now)")
	return cmd
}

func newOpenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "open",
		Short: "List the user's open sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := app.Presence.ListOpen(cmd.Context(), app.Group, app.User)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintln(w, "No open sessions.")
				return nil
			}

			headers := []string{"ID", "CHANNEL", "SOURCE", "STARTED"}
			rows := make([][]string, 0, len(sessions))
			for _, s := range sessions {
				rows = append(rows, []string{
					formatter.TruncID(s.ID),
					channelOrManual(s),
					string(s.Source),
					app.Calendar.FormatDateTime(s.StartedAt),
				})
			}
			fmt.Fprint(w, formatter.RenderTable(headers, rows))
			return nil
		},
	}
}

func channelOrManual(s *domain.Session) string {
	if s.ChannelID == "" {
		return formatter.Dim(domain.ManualChannelKey)
	}
	return s.ChannelID
}
