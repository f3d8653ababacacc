package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpovs/shelfkeeper/internal/common"
	"github.com/akarpovs/shelfkeeper/internal/models"
	"github.com/akarpovs/shelfkeeper/internal/store"

	_ "modernc.org/sqlite"
)

func setupStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), ":memory:", store.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func insertItem(t *testing.T, s *store.Store, kind models.Kind, title string, attrs map[string]string) *models.Item {
	t.Helper()
	d := models.NewDraft(kind)
	d.Title = title
	for k, v := range attrs {
		d.Attrs[k] = v
	}
	require.NoError(t, s.Insert(context.Background(), d))
	return d
}

func readCSV(t *testing.T, b []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteCSV_HeaderMatchesCatalogOrder(t *testing.T) {
	s := setupStore(t)
	svc := NewService(s)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteCSV(context.Background(), &buf, models.KindGame, Options{}))

	records := readCSV(t, buf.Bytes())
	require.Len(t, records, 1) // header only, empty store

	want := append([]string{"id", "title", "notes", "enteredDate"}, models.AttrKeys(models.KindGame)...)
	assert.Equal(t, want, records[0])
}

func TestWriteCSV_RowsSortedByTitle(t *testing.T) {
	s := setupStore(t)
	svc := NewService(s)

	insertItem(t, s, models.KindGame, "Zelda", nil)
	insertItem(t, s, models.KindGame, "Halo", nil)
	insertItem(t, s, models.KindGame, "Metroid", nil)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteCSV(context.Background(), &buf, models.KindGame, Options{}))

	records := readCSV(t, buf.Bytes())
	require.Len(t, records, 4)
	assert.Equal(t, "Halo", records[1][1])
	assert.Equal(t, "Metroid", records[2][1])
	assert.Equal(t, "Zelda", records[3][1])
}

func TestWriteCSV_QuotesCommasAndNewlines(t *testing.T) {
	s := setupStore(t)
	svc := NewService(s)

	it := insertItem(t, s, models.KindMovie, "Alien, the Director's Cut", nil)
	require.NoError(t, s.Update(context.Background(), it.ID, map[string]string{
		models.FieldNotes: "disc one scratched\nreplace eventually",
	}))

	var buf bytes.Buffer
	require.NoError(t, svc.WriteCSV(context.Background(), &buf, models.KindMovie, Options{}))

	// a plain csv.Reader must reproduce the values exactly
	records := readCSV(t, buf.Bytes())
	require.Len(t, records, 2)
	assert.Equal(t, "Alien, the Director's Cut", records[1][1])
	assert.Equal(t, "disc one scratched\nreplace eventually", records[1][2])
}

func TestWriteCSV_ExcludesOtherKindsAndTombstones(t *testing.T) {
	s := setupStore(t)
	svc := NewService(s)
	ctx := context.Background()

	keep := insertItem(t, s, models.KindGame, "Metroid Prime", nil)
	deleted := insertItem(t, s, models.KindGame, "Halo", nil)
	insertItem(t, s, models.KindComic, "Saga Vol. 1", nil)
	require.NoError(t, s.Delete(ctx, deleted.ID))

	var buf bytes.Buffer
	require.NoError(t, svc.WriteCSV(ctx, &buf, models.KindGame, Options{}))

	records := readCSV(t, buf.Bytes())
	require.Len(t, records, 2)
	assert.Equal(t, keep.ID, records[1][0])
}

func TestWriteCSV_IncludeDeletedAddsColumn(t *testing.T) {
	s := setupStore(t)
	svc := NewService(s)
	ctx := context.Background()

	deleted := insertItem(t, s, models.KindGame, "Halo", nil)
	require.NoError(t, s.Delete(ctx, deleted.ID))

	var buf bytes.Buffer
	require.NoError(t, svc.WriteCSV(ctx, &buf, models.KindGame, Options{IncludeDeleted: true}))

	records := readCSV(t, buf.Bytes())
	require.Len(t, records, 2)
	assert.Equal(t, "deletedDate", records[0][len(records[0])-1])
	assert.NotEmpty(t, records[1][len(records[1])-1])
}

func TestExportToFile_RoundTrip(t *testing.T) {
	s := setupStore(t)
	svc := NewService(s)
	ctx := context.Background()

	insertItem(t, s, models.KindGame, "Halo", map[string]string{
		models.AttrBrand:  "Xbox",
		models.AttrSystem: "Xbox",
	})

	path := filepath.Join(t.TempDir(), "games.csv")
	require.NoError(t, svc.ExportToFile(ctx, path, models.KindGame, Options{}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	records := readCSV(t, b)
	require.Len(t, records, 2)
	assert.Equal(t, "Halo", records[1][1])
}

func TestExportToFile_UnwritablePath(t *testing.T) {
	s := setupStore(t)
	svc := NewService(s)

	err := svc.ExportToFile(context.Background(), filepath.Join(t.TempDir(), "no", "such", "dir.csv"), models.KindGame, Options{})
	require.ErrorIs(t, err, common.ErrExportIO)
}
