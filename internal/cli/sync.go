package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akarpovs/shelfkeeper/internal/repositories/metadata"
)

// NewSyncCommand creates the sync command.
func NewSyncCommand(app *App) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize with the backend",
		Long: `Run one sync cycle (push local changes, pull remote ones), or keep
syncing periodically with --watch. Requires a backend endpoint (-a flag or
backend_endpoint_addr in the JSON config).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.engine == nil {
				return errors.New("sync is disabled: no backend endpoint configured")
			}

			if watch {
				fmt.Fprintf(cmd.OutOrStdout(), "syncing every %s, press Ctrl-C to stop\n", app.config.SyncInterval)
				return app.engine.RunLoop(cmd.Context(), app.config.SyncInterval)
			}

			if err := app.engine.Sync(cmd.Context()); err != nil {
				return err
			}
			printSyncStatus(cmd, app)
			return nil
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "keep syncing on the configured interval")

	return cmd
}

func printSyncStatus(cmd *cobra.Command, app *App) {
	meta := app.store.Meta()
	if at, err := meta.Get(cmd.Context(), metadata.KeyLastSyncAt); err == nil && at != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "last sync: %s\n", at)
	}
	if msg, err := meta.Get(cmd.Context(), metadata.KeyLastSyncError); err == nil && msg != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "last error: %s\n", msg)
	}
}
