package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSetCommand creates the set command.
func NewSetCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <id> <field=value>...",
		Short: "Update fields of an item",
		Long: `Update one or more fields. Unnamed fields keep their values.

Example:
  shelfkeeper set 1f3a... isPlayed=true location=Shelf`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parsePairs(args[1:])
			if err != nil {
				return err
			}
			if err := app.store.Update(cmd.Context(), args[0], fields); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "updated")
			return nil
		},
	}
	return cmd
}
