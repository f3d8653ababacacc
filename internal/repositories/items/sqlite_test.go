package items

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpovs/shelfkeeper/internal/common"
	"github.com/akarpovs/shelfkeeper/internal/models"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE items (
  id             TEXT PRIMARY KEY,
  kind           TEXT NOT NULL,
  title          TEXT NOT NULL,
  notes          TEXT NOT NULL DEFAULT '',
  entered_at     INTEGER NOT NULL,
  attrs          TEXT NOT NULL DEFAULT '{}',
  deleted_at     INTEGER,
  local_version  INTEGER NOT NULL DEFAULT 0,
  remote_version INTEGER NOT NULL DEFAULT 0,
  sync_state     TEXT NOT NULL DEFAULT 'clean',
  field_times    TEXT NOT NULL DEFAULT '{}'
);
`)
	require.NoError(t, err)
	return db
}

func newGame(id, title string) *models.Item {
	it := models.NewDraft(models.KindGame)
	it.ID = id
	it.Title = title
	it.EnteredAt = time.Now().UTC()
	return it
}

func TestInsertAndGetByID_RoundTrip(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	it := newGame("g1", "Halo")
	it.Attrs[models.AttrBrand] = "Xbox"
	it.Attrs[models.AttrSystem] = "Xbox Series S/X"
	it.FieldTimes[models.FieldTitle] = time.Now().UTC().Truncate(time.Microsecond)
	it.LocalVersion = 3
	it.RemoteVersion = 2
	it.SyncState = models.SyncPendingPush

	require.NoError(t, r.Insert(ctx, it))

	got, err := r.GetByID(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "Halo", got.Title)
	assert.Equal(t, models.KindGame, got.Kind)
	assert.Equal(t, "Xbox", got.Attrs[models.AttrBrand])
	assert.Equal(t, "Xbox Series S/X", got.Attrs[models.AttrSystem])
	assert.Equal(t, int64(3), got.LocalVersion)
	assert.Equal(t, int64(2), got.RemoteVersion)
	assert.Equal(t, models.SyncPendingPush, got.SyncState)
	assert.Equal(t, it.FieldTimes[models.FieldTitle].UnixNano(), got.FieldTimes[models.FieldTitle].UnixNano())
	assert.Nil(t, got.DeletedAt)
}

func TestGetByID_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.GetByID(context.Background(), "nope")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdate_ReplacesRow(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	it := newGame("g1", "Halo")
	require.NoError(t, r.Insert(ctx, it))

	it.Title = "Halo 2"
	now := time.Now().UTC()
	it.DeletedAt = &now
	require.NoError(t, r.Update(ctx, it))

	got, err := r.GetByID(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "Halo 2", got.Title)
	require.NotNil(t, got.DeletedAt)
	assert.Equal(t, now.UnixNano(), got.DeletedAt.UnixNano())
}

func TestUpdate_MissingRow(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	err := r.Update(context.Background(), newGame("ghost", "x"))
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestList_FiltersAndOrder(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	g1 := newGame("a", "A")
	g2 := newGame("b", "B")
	now := time.Now().UTC()
	g2.DeletedAt = &now
	m1 := models.NewDraft(models.KindMovie)
	m1.ID = "c"
	m1.Title = "C"
	m1.EnteredAt = now
	m1.LocalVersion = 1

	require.NoError(t, r.Insert(ctx, g1))
	require.NoError(t, r.Insert(ctx, g2))
	require.NoError(t, r.Insert(ctx, m1))

	// default: tombstones excluded, ordered by id
	got, err := r.List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)

	// tombstones included
	got, err = r.List(ctx, ListOptions{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	// kind filter
	got, err = r.List(ctx, ListOptions{Kind: models.KindMovie})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].ID)

	// pending only
	got, err = r.List(ctx, ListOptions{PendingOnly: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].ID)
}

func TestCountByKind_ExcludesTombstones(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, newGame("a", "A")))
	g := newGame("b", "B")
	now := time.Now().UTC()
	g.DeletedAt = &now
	require.NoError(t, r.Insert(ctx, g))

	n, err := r.CountByKind(ctx, models.KindGame)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = r.CountByKind(ctx, models.KindMovie)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestPurgeTombstones_OnlyAckedAndOld(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	old := time.Now().UTC().Add(-48 * time.Hour)
	recent := time.Now().UTC()

	// old + acknowledged: purged
	a := newGame("a", "A")
	a.DeletedAt = &old
	a.LocalVersion, a.RemoteVersion = 2, 2
	// old + unacknowledged: kept
	b := newGame("b", "B")
	b.DeletedAt = &old
	b.LocalVersion, b.RemoteVersion = 2, 1
	// recent + acknowledged: kept
	c := newGame("c", "C")
	c.DeletedAt = &recent
	c.LocalVersion, c.RemoteVersion = 2, 2

	for _, it := range []*models.Item{a, b, c} {
		require.NoError(t, r.Insert(ctx, it))
	}

	n, err := r.PurgeTombstones(ctx, time.Now().UTC().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = r.GetByID(ctx, "a")
	require.ErrorIs(t, err, common.ErrNotFound)
	_, err = r.GetByID(ctx, "b")
	require.NoError(t, err)
	_, err = r.GetByID(ctx, "c")
	require.NoError(t, err)
}
