package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpovs/shelfkeeper/internal/config"
)

func setupApp(t *testing.T) *App {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabasePath = ":memory:"
	cfg.SeedSampleData = false

	app, err := NewApp(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func execute(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	root := NewRootCommand(app)
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestAdd_ThenGet(t *testing.T) {
	app := setupApp(t)

	out, err := execute(t, app, "add", "game", "Chrono Trigger",
		"--attr", "brand=Nintendo", "--attr", "system=SNES")
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	out, err = execute(t, app, "get", id)
	require.NoError(t, err)
	assert.Contains(t, out, "title: Chrono Trigger")
	assert.Contains(t, out, "brand: Nintendo")
	assert.Contains(t, out, "system: SNES")
}

func TestAdd_UnknownKind(t *testing.T) {
	app := setupApp(t)

	_, err := execute(t, app, "add", "vinyl", "Abbey Road")
	require.ErrorContains(t, err, "unknown kind")
}

func TestAdd_CatalogViolation(t *testing.T) {
	app := setupApp(t)

	_, err := execute(t, app, "add", "game", "Halo", "--attr", "brand=Xbox", "--attr", "system=SNES")
	require.ErrorContains(t, err, "does not belong to brand")
}

func TestSet_UpdatesField(t *testing.T) {
	app := setupApp(t)

	out, err := execute(t, app, "add", "comic", "Saga")
	require.NoError(t, err)
	id := strings.TrimSpace(out)

	_, err = execute(t, app, "set", id, "isRead=true", "notes=signed copy")
	require.NoError(t, err)

	out, err = execute(t, app, "get", id)
	require.NoError(t, err)
	assert.Contains(t, out, "isRead: true")
	assert.Contains(t, out, "notes: signed copy")
}

func TestList_FilterAndGroup(t *testing.T) {
	app := setupApp(t)

	_, err := execute(t, app, "add", "game", "Zelda", "--attr", "brand=Nintendo")
	require.NoError(t, err)
	_, err = execute(t, app, "add", "game", "Halo", "--attr", "brand=Xbox")
	require.NoError(t, err)

	out, err := execute(t, app, "list", "game", "--facet", "brand=Nintendo")
	require.NoError(t, err)
	assert.Contains(t, out, "Zelda")
	assert.NotContains(t, out, "Halo")

	out, err = execute(t, app, "list", "game", "--group-by", "brand")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "Nintendo:"), strings.Index(out, "Xbox:"))
}

func TestDelete_HidesFromListAndExport(t *testing.T) {
	app := setupApp(t)

	out, err := execute(t, app, "add", "game", "Halo", "--attr", "brand=Xbox")
	require.NoError(t, err)
	id := strings.TrimSpace(out)

	_, err = execute(t, app, "delete", id)
	require.NoError(t, err)

	out, err = execute(t, app, "list", "game")
	require.NoError(t, err)
	assert.NotContains(t, out, "Halo")

	out, err = execute(t, app, "export", "game")
	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1, "only the header should remain")
}

func TestSync_DisabledWithoutBackend(t *testing.T) {
	app := setupApp(t)

	_, err := execute(t, app, "sync")
	require.ErrorContains(t, err, "sync is disabled")
}

func TestSystems_SortedForBrand(t *testing.T) {
	app := setupApp(t)

	out, err := execute(t, app, "systems", "Sega")
	require.NoError(t, err)
	assert.Contains(t, out, "Dreamcast")
	assert.Contains(t, out, "Genesis")
}
