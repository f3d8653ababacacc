package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akarpovs/shelfkeeper/internal/models"
	"github.com/akarpovs/shelfkeeper/internal/query"
	"github.com/akarpovs/shelfkeeper/internal/store"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	Facets         []string
	TitleContains  string
	SortField      string
	Desc           bool
	GroupField     string
	IncludeDeleted bool
}

// NewListCommand creates the list command.
func NewListCommand(app *App) *cobra.Command {
	opts := &ListOptions{}

	cmd := &cobra.Command{
		Use:   "list <kind>",
		Short: "List items of one kind",
		Long: `List items, optionally filtered, sorted and grouped.

Example:
  shelfkeeper list game --facet brand=Nintendo --sort title
  shelfkeeper list movie --title alien --group-by genre`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := models.Kind(args[0])
			if !kind.Valid() {
				return fmt.Errorf("unknown kind %q: expected one of %v", args[0], models.Kinds)
			}

			items, err := app.store.Query(cmd.Context(), store.QueryOptions{
				Kind:           kind,
				IncludeDeleted: opts.IncludeDeleted,
			})
			if err != nil {
				return err
			}

			facets, err := parsePairs(opts.Facets)
			if err != nil {
				return err
			}
			items = query.Filter(items, query.Criteria{
				Facets:        facets,
				TitleContains: opts.TitleContains,
			})
			items = query.SortBy(items, opts.SortField, opts.Desc)

			out := cmd.OutOrStdout()
			if opts.GroupField != "" {
				for _, g := range query.GroupBy(items, opts.GroupField) {
					fmt.Fprintf(out, "%s:\n", g.Key)
					for _, it := range g.Items {
						fmt.Fprintf(out, "  %s  %s\n", it.ID, it.Title)
					}
				}
				return nil
			}

			for _, it := range items {
				fmt.Fprintf(out, "%s  %s\n", it.ID, it.Title)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&opts.Facets, "facet", nil, "filter as field=value, conjunctive (repeatable)")
	cmd.Flags().StringVar(&opts.TitleContains, "title", "", "case-insensitive title substring filter")
	cmd.Flags().StringVar(&opts.SortField, "sort", models.FieldTitle, "field to sort by")
	cmd.Flags().BoolVar(&opts.Desc, "desc", false, "sort descending")
	cmd.Flags().StringVar(&opts.GroupField, "group-by", "", "group output by field")
	cmd.Flags().BoolVar(&opts.IncludeDeleted, "include-deleted", false, "include deleted items")

	return cmd
}
