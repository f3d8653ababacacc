package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/akarpovs/shelfkeeper/internal/models"
)

// NewAddCommand creates the add command.
func NewAddCommand(app *App) *cobra.Command {
	var attrs []string

	cmd := &cobra.Command{
		Use:   "add <kind> <title>",
		Short: "Add an item to the collection",
		Long: `Add one item of the given kind (game, movie or comic).

Attributes not supplied keep their documented defaults.

Example:
  shelfkeeper add game "Chrono Trigger" --attr brand=Nintendo --attr system=SNES`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := models.Kind(args[0])
			if !kind.Valid() {
				return fmt.Errorf("unknown kind %q: expected one of %v", args[0], models.Kinds)
			}

			it := models.NewDraft(kind)
			it.Title = args[1]
			pairs, err := parsePairs(attrs)
			if err != nil {
				return err
			}
			for k, v := range pairs {
				it.Attrs[k] = v
			}

			if err := app.store.Insert(cmd.Context(), it); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), it.ID)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&attrs, "attr", nil, "attribute as key=value (repeatable)")

	return cmd
}

// parsePairs turns key=value arguments into a map.
func parsePairs(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid key=value pair %q", p)
		}
		out[k] = v
	}
	return out, nil
}
