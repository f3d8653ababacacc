// Package cli is the command-line surface of ShelfKeeper. It wires the
// config, local store, sync engine and export service together and exposes
// them as cobra commands.
package cli

import (
	"context"
	"fmt"

	"github.com/akarpovs/shelfkeeper/internal/config"
	"github.com/akarpovs/shelfkeeper/internal/export"
	"github.com/akarpovs/shelfkeeper/internal/logging"
	"github.com/akarpovs/shelfkeeper/internal/models"
	"github.com/akarpovs/shelfkeeper/internal/seed"
	"github.com/akarpovs/shelfkeeper/internal/store"
	syncx "github.com/akarpovs/shelfkeeper/internal/sync"
	"github.com/akarpovs/shelfkeeper/internal/sync/httpapi"

	_ "modernc.org/sqlite"
)

// App holds the wired application services behind the commands.
type App struct {
	config *config.Config
	log    logging.Logger
	store  *store.Store
	export *export.Service

	// engine is nil when no backend endpoint is configured.
	engine *syncx.Engine
}

// NewApp opens the local database, applies migrations, seeds starter data
// when enabled and, if a backend endpoint is configured, wires the sync
// engine.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Nop{}
	}

	st, err := store.Open(ctx, cfg.DatabasePath, store.Options{
		Logger: log,
		Rules:  []models.Rule{models.CatalogRule},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", cfg.DatabasePath, err)
	}

	if cfg.SeedSampleData {
		if err := seed.EnsureSampleData(ctx, st, log); err != nil {
			_ = st.Close()
			return nil, err
		}
	}

	app := &App{
		config: cfg,
		log:    log,
		store:  st,
		export: export.NewService(st),
	}

	if cfg.BackendEndpointAddr != "" {
		engineCfg := syncx.Config{}
		engineCfg.LoadDefaults()
		engineCfg.MaxRetries = cfg.SyncMaxRetries
		engineCfg.Retention = cfg.TombstoneRetention
		app.engine = syncx.New(st, httpapi.New(cfg.BackendEndpointAddr), engineCfg, log)
	}

	return app, nil
}

// Close releases the database handle.
func (a *App) Close() error {
	return a.store.Close()
}
