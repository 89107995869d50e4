package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/attend/internal/cli/formatter"
	"github.com/alexanderramin/attend/internal/repository"
	"github.com/spf13/cobra"
)

func newScheduleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Manage the user's daily work window",
	}
	cmd.AddCommand(newScheduleSetCmd(app), newScheduleShowCmd(app))
	return cmd
}

func newScheduleSetCmd(app *App) *cobra.Command {
	var start, end clockValue

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set the work window (HH:MM to HH:MM)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			startStr, endStr := start.String(), end.String()
			if !start.set || !end.set {
				if !app.interactive() {
					return errors.New("--start and --end are required")
				}
				if err := scheduleForm(&startStr, &endStr).Run(); err != nil {
					return err
				}
			}

			sc, err := app.Config.SetSchedule(cmd.Context(), app.Group, app.User,
				strings.TrimSpace(startStr), strings.TrimSpace(endStr))
			if err != nil {
				return err
			}
			formatter.Success(cmd.OutOrStdout(), "Schedule saved for %s: %s",
				app.User, formatter.Window(sc.WorkStartMin, sc.WorkEndMin))
			return nil
		},
	}

	cmd.Flags().Var(&start, "start", "Work start")
	cmd.Flags().Var(&end, "end", "Work end")
	return cmd
}

func newScheduleShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the work window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := app.Config.GetSchedule(cmd.Context(), app.Group, app.User)
			if errors.Is(err, repository.ErrNotFound) {
				fmt.Fprintf(cmd.OutOrStdout(), "Horario: No configurado\n")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Horario: %s\n", formatter.Window(sc.WorkStartMin, sc.WorkEndMin))
			return nil
		},
	}
}

func newBreakCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "break",
		Short: "Manage the user's daily break",
	}
	cmd.AddCommand(newBreakSetCmd(app), newBreakShowCmd(app))
	return cmd
}

func newBreakSetCmd(app *App) *cobra.Command {
	var start clockValue
	var minutes int

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set the break start and length",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			startStr := start.String()
			if !start.set || !cmd.Flags().Changed("minutes") {
				if !app.interactive() {
					return errors.New("--start and --minutes are required")
				}
				minutesStr := ""
				if cmd.Flags().Changed("minutes") {
					minutesStr = strconv.Itoa(minutes)
				}
				if err := breakForm(&startStr, &minutesStr).Run(); err != nil {
					return err
				}
				n, err := strconv.Atoi(strings.TrimSpace(minutesStr))
				if err != nil {
					return fmt.Errorf("invalid minutes %q", minutesStr)
				}
				minutes = n
			}

			br, err := app.Config.SetBreak(cmd.Context(), app.Group, app.User, strings.TrimSpace(startStr), minutes)
			if err != nil {
				return err
			}
			formatter.Success(cmd.OutOrStdout(), "Break saved for %s: %s (%d min)",
				app.User, formatter.Window(br.BreakStartMin, br.BreakEndMin), br.DurationMin())
			return nil
		},
	}

	cmd.Flags().Var(&start, "start", "Break start")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "Break length in minutes")
	return cmd
}

func newBreakShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the daily break",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			br, err := app.Config.GetBreak(cmd.Context(), app.Group, app.User)
			if errors.Is(err, repository.ErrNotFound) {
				fmt.Fprintf(cmd.OutOrStdout(), "Break: —\n")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Break: %s (%d min)\n",
				formatter.Window(br.BreakStartMin, br.BreakEndMin), br.DurationMin())
			return nil
		},
	}
}
