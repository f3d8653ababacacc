package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command for the ShelfKeeper CLI.
func NewRootCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "shelfkeeper",
		Short:         "ShelfKeeper - a local-first collection tracker",
		Long:          "Track games, movies and comics in a local database that syncs opportunistically with a backend.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewAddCommand(app))
	cmd.AddCommand(NewListCommand(app))
	cmd.AddCommand(NewGetCommand(app))
	cmd.AddCommand(NewSetCommand(app))
	cmd.AddCommand(NewDeleteCommand(app))
	cmd.AddCommand(NewExportCommand(app))
	cmd.AddCommand(NewSyncCommand(app))
	cmd.AddCommand(NewPurgeCommand(app))
	cmd.AddCommand(NewSystemsCommand(app))

	return cmd
}
