package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akarpovs/shelfkeeper/internal/models"
)

// NewGetCommand creates the get command.
func NewGetCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "get <id>",
		Short:         "Show one item",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := app.store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "id: %s\n", it.ID)
			fmt.Fprintf(out, "kind: %s\n", it.Kind)
			fmt.Fprintf(out, "title: %s\n", it.Title)
			if it.Notes != "" {
				fmt.Fprintf(out, "notes: %s\n", it.Notes)
			}
			fmt.Fprintf(out, "entered: %s\n", it.EnteredAt.Format("2006-01-02"))
			for _, key := range models.AttrKeys(it.Kind) {
				if v := it.Attrs[key]; v != "" {
					fmt.Fprintf(out, "%s: %s\n", key, v)
				}
			}
			fmt.Fprintf(out, "sync: %s\n", it.SyncState)
			return nil
		},
	}
	return cmd
}
