package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akarpovs/shelfkeeper/internal/models"
)

// NewSystemsCommand creates the systems command.
func NewSystemsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "systems <brand>",
		Short: "List the game systems of a brand",
		Long: `List the systems belonging to a brand, sorted. Unknown brands fall
back to the "Other" list.

Example:
  shelfkeeper systems Nintendo`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, sys := range models.SystemsForBrand(args[0]) {
				fmt.Fprintln(cmd.OutOrStdout(), sys)
			}
			return nil
		},
	}
	return cmd
}
