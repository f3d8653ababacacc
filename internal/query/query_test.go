package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpovs/shelfkeeper/internal/models"
)

func game(id, title string, attrs map[string]string) *models.Item {
	it := models.NewDraft(models.KindGame)
	it.ID = id
	it.Title = title
	for k, v := range attrs {
		it.Attrs[k] = v
	}
	return it
}

func ids(items []*models.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestFilter_FacetsAreConjunctive(t *testing.T) {
	items := []*models.Item{
		game("a", "Halo", map[string]string{models.AttrBrand: "Xbox", models.AttrGenre: "Shooter"}),
		game("b", "Gears", map[string]string{models.AttrBrand: "Xbox", models.AttrGenre: "Action"}),
		game("c", "Doom", map[string]string{models.AttrBrand: "PC", models.AttrGenre: "Shooter"}),
	}

	got := Filter(items, Criteria{Facets: map[string]string{
		models.AttrBrand: "Xbox",
		models.AttrGenre: "Shooter",
	}})
	assert.Equal(t, []string{"a"}, ids(got))
}

func TestFilter_TitleSubstringIsCaseInsensitive(t *testing.T) {
	items := []*models.Item{
		game("a", "The Legend of Zelda", nil),
		game("b", "ZELDA II", nil),
		game("c", "Metroid", nil),
	}

	got := Filter(items, Criteria{TitleContains: "zelda"})
	assert.Equal(t, []string{"a", "b"}, ids(got))
}

func TestFilter_EmptyCriteriaMatchesAll(t *testing.T) {
	items := []*models.Item{game("a", "Halo", nil), game("b", "Doom", nil)}

	got := Filter(items, Criteria{})
	assert.Equal(t, []string{"a", "b"}, ids(got))
}

func TestFilter_UnknownFieldMatchesNothing(t *testing.T) {
	items := []*models.Item{game("a", "Halo", nil)}

	got := Filter(items, Criteria{Facets: map[string]string{"bogus": "x"}})
	assert.Empty(t, got)
}

func TestSortBy_TitleWithIDTieBreak(t *testing.T) {
	items := []*models.Item{
		game("b", "Halo", nil),
		game("c", "Doom", nil),
		game("a", "Halo", nil),
	}

	got := SortBy(items, models.FieldTitle, false)
	assert.Equal(t, []string{"c", "a", "b"}, ids(got))

	// input order untouched
	assert.Equal(t, []string{"b", "c", "a"}, ids(items))
}

func TestSortBy_Descending(t *testing.T) {
	items := []*models.Item{
		game("a", "Doom", nil),
		game("b", "Zelda", nil),
		game("c", "Halo", nil),
	}

	got := SortBy(items, models.FieldTitle, true)
	assert.Equal(t, []string{"b", "c", "a"}, ids(got))
}

func TestSortBy_AttrField(t *testing.T) {
	items := []*models.Item{
		game("a", "Halo", map[string]string{models.AttrRating: "T"}),
		game("b", "Doom", map[string]string{models.AttrRating: "M"}),
		game("c", "Kirby", map[string]string{models.AttrRating: "E"}),
	}

	got := SortBy(items, models.AttrRating, false)
	assert.Equal(t, []string{"c", "b", "a"}, ids(got))
}

func TestGroupBy_KeysSortedItemsStable(t *testing.T) {
	items := []*models.Item{
		game("a", "Halo", map[string]string{models.AttrBrand: "Xbox"}),
		game("b", "Zelda", map[string]string{models.AttrBrand: "Nintendo"}),
		game("c", "Gears", map[string]string{models.AttrBrand: "Xbox"}),
	}

	groups := GroupBy(items, models.AttrBrand)
	require.Len(t, groups, 2)

	assert.Equal(t, "Nintendo", groups[0].Key)
	assert.Equal(t, []string{"b"}, ids(groups[0].Items))

	assert.Equal(t, "Xbox", groups[1].Key)
	assert.Equal(t, []string{"a", "c"}, ids(groups[1].Items))
}

func TestGroupBy_MissingFieldGroupsUnderEmptyKey(t *testing.T) {
	items := []*models.Item{
		game("a", "Halo", map[string]string{models.AttrBrand: "Xbox"}),
		game("b", "Mystery", nil),
	}
	delete(items[1].Attrs, models.AttrBrand)

	groups := GroupBy(items, models.AttrBrand)
	require.Len(t, groups, 2)
	assert.Equal(t, "", groups[0].Key)
	assert.Equal(t, []string{"b"}, ids(groups[0].Items))
}
