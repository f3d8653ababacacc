package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akarpovs/shelfkeeper/internal/export"
	"github.com/akarpovs/shelfkeeper/internal/models"
)

// NewExportCommand creates the export command.
func NewExportCommand(app *App) *cobra.Command {
	var includeDeleted bool

	cmd := &cobra.Command{
		Use:   "export <kind> [path]",
		Short: "Export one kind as CSV",
		Long: `Export one kind as an RFC 4180 CSV snapshot. Without a path the
CSV goes to stdout.

Example:
  shelfkeeper export game games.csv
  shelfkeeper export comic`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := models.Kind(args[0])
			if !kind.Valid() {
				return fmt.Errorf("unknown kind %q: expected one of %v", args[0], models.Kinds)
			}

			opts := export.Options{IncludeDeleted: includeDeleted}
			if len(args) == 1 {
				return app.export.WriteCSV(cmd.Context(), cmd.OutOrStdout(), kind, opts)
			}
			if err := app.export.ExportToFile(cmd.Context(), args[1], kind, opts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", args[1])
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeDeleted, "include-deleted", false, "include deleted items")

	return cmd
}
