package cli

import (
	"fmt"

	"github.com/alexanderramin/attend/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newViewerCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viewer",
		Short: "Manage who may see other users' reports",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add USER",
			Short: "Grant report access",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.Viewers.Grant(cmd.Context(), app.Group, args[0]); err != nil {
					return err
				}
				formatter.Success(cmd.OutOrStdout(), "%s can now view all reports", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove USER",
			Short: "Revoke report access",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.Viewers.Revoke(cmd.Context(), app.Group, args[0]); err != nil {
					return err
				}
				formatter.Success(cmd.OutOrStdout(), "%s removed from viewers", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List viewers",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ids, err := app.Viewers.List(cmd.Context(), app.Group)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if len(ids) == 0 {
					fmt.Fprintln(w, "No hay viewers autorizados.")
					return nil
				}
				for _, id := range ids {
					fmt.Fprintf(w, "• %s\n", id)
				}
				return nil
			},
		},
	)

	return cmd
}
