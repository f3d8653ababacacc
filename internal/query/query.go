// Package query holds the pure, stateless filtering, sorting and grouping
// functions the presentation layer runs over collection snapshots. Nothing
// here touches the store.
package query

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/akarpovs/shelfkeeper/internal/models"
)

// Criteria describes a filter: AND semantics across facets, plus an
// optional case-insensitive title substring.
type Criteria struct {
	// Facets maps field name → required value; all must match.
	Facets map[string]string

	// TitleContains matches a substring of the title, case-insensitively
	// and locale-aware (Unicode case folding).
	TitleContains string
}

var fold = cases.Fold()

// Filter returns the items matching c, preserving input order.
func Filter(items []*models.Item, c Criteria) []*models.Item {
	needle := fold.String(c.TitleContains)

	var out []*models.Item
	for _, it := range items {
		if !matchesFacets(it, c.Facets) {
			continue
		}
		if needle != "" && !strings.Contains(fold.String(it.Title), needle) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func matchesFacets(it *models.Item, facets map[string]string) bool {
	for name, want := range facets {
		got, ok := it.Field(name)
		if !ok || got != want {
			return false
		}
	}
	return true
}

// SortBy returns a copy of items stably sorted by the named field, with a
// deterministic id tie-break so paging and tests see reproducible order.
func SortBy(items []*models.Item, field string, desc bool) []*models.Item {
	out := make([]*models.Item, len(items))
	copy(out, items)

	col := collate.New(language.Und)
	sort.SliceStable(out, func(i, j int) bool {
		a, _ := out[i].Field(field)
		b, _ := out[j].Field(field)
		if c := col.CompareString(a, b); c != 0 {
			if desc {
				return c > 0
			}
			return c < 0
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Group is one section of a grouped listing.
type Group struct {
	Key   string
	Items []*models.Item
}

// GroupBy partitions items by the named field. Groups come back in collated
// key order; items keep their incoming order within each group.
func GroupBy(items []*models.Item, field string) []Group {
	byKey := make(map[string][]*models.Item)
	var keys []string
	for _, it := range items {
		key, _ := it.Field(field)
		if _, seen := byKey[key]; !seen {
			keys = append(keys, key)
		}
		byKey[key] = append(byKey[key], it)
	}

	collate.New(language.Und).SortStrings(keys)

	out := make([]Group, 0, len(keys))
	for _, key := range keys {
		out = append(out, Group{Key: key, Items: byKey[key]})
	}
	return out
}
