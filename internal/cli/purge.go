package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewPurgeCommand creates the purge command.
func NewPurgeCommand(app *App) *cobra.Command {
	var retention time.Duration

	cmd := &cobra.Command{
		Use:           "purge",
		Short:         "Compact acknowledged deletions",
		Long:          "Remove tombstones that the backend has acknowledged and that are older than the retention window.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if retention == 0 {
				retention = app.config.TombstoneRetention
			}
			n, err := app.store.PurgeTombstones(cmd.Context(), retention)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged %d tombstones\n", n)
			return nil
		},
	}

	cmd.Flags().DurationVar(&retention, "retention", 0, "retention window (default from config)")

	return cmd
}
