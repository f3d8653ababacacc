// Package store implements the durable, queryable local store for
// collectible items: the single source of truth for the presentation layer
// and for the sync engine's change detection.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/akarpovs/shelfkeeper/internal/common"
	"github.com/akarpovs/shelfkeeper/internal/dbx"
	"github.com/akarpovs/shelfkeeper/internal/logging"
	"github.com/akarpovs/shelfkeeper/internal/models"
	"github.com/akarpovs/shelfkeeper/internal/repositories/changelog"
	"github.com/akarpovs/shelfkeeper/internal/repositories/items"
	"github.com/akarpovs/shelfkeeper/internal/repositories/metadata"
)

// Options configures a Store.
type Options struct {
	// Logger defaults to logging.Nop.
	Logger logging.Logger

	// Clock defaults to time.Now; tests override it.
	Clock func() time.Time

	// Rules are extra validation rules applied on every Insert/Update,
	// e.g. models.CatalogRule for categorical-membership enforcement.
	Rules []models.Rule
}

// Store is the local persistent object store. All mutations go through a
// single mutex (single logical writer) and run inside one transaction, so a
// reader never observes a partially applied multi-field update and writes
// from sync and from user edits are totally ordered.
type Store struct {
	mu    sync.Mutex
	db    *sql.DB
	log   logging.Logger
	now   func() time.Time
	rules []models.Rule
}

// Open opens (creating if needed) the database at dsn, migrates the schema
// and returns a ready Store.
func Open(ctx context.Context, dsn string, opts Options) (*Store, error) {
	db, err := OpenDB(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return New(db, opts), nil
}

// New wraps an already-opened database. The schema must be in place.
func New(db *sql.DB, opts Options) *Store {
	if opts.Logger == nil {
		opts.Logger = logging.Nop{}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Store{
		db:    db,
		log:   opts.Logger.With("component", "store"),
		now:   opts.Clock,
		rules: opts.Rules,
	}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for collaborators that share the
// database (the sync engine's metadata bookkeeping).
func (s *Store) DB() *sql.DB {
	return s.db
}

// nextLocalVersion keeps the pending invariant (LocalVersion > RemoteVersion
// while unpushed changes exist) intact even though the backend's version
// counter advances independently of the local one.
func nextLocalVersion(it *models.Item) int64 {
	v := it.LocalVersion
	if it.RemoteVersion > v {
		v = it.RemoteVersion
	}
	return v + 1
}

func (s *Store) withWriteTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dbx.WithTx(ctx, s.db, nil, fn)
}

// Insert persists a draft. It stamps EnteredAt, bumps the local version and
// appends a "created" change-log entry. Fails with common.ErrDuplicateID if
// the id is already present (tombstoned or not) and with
// *models.ValidationError if the draft is not saveable.
func (s *Store) Insert(ctx context.Context, it *models.Item) error {
	if err := models.Validate(it, s.rules...); err != nil {
		return err
	}

	return s.withWriteTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := items.NewSQLiteRepository(tx)

		if _, err := repo.GetByID(ctx, it.ID); err == nil {
			return fmt.Errorf("insert %s: %w", it.ID, common.ErrDuplicateID)
		} else if !errors.Is(err, common.ErrNotFound) {
			return err
		}

		now := s.now().UTC()
		if it.EnteredAt.IsZero() {
			it.EnteredAt = now
		}
		it.LocalVersion = 1
		it.RemoteVersion = 0
		it.SyncState = models.SyncPendingPush
		if it.FieldTimes == nil {
			it.FieldTimes = make(map[string]time.Time)
		}
		for name := range it.Fields() {
			it.FieldTimes[name] = now
		}

		if err := repo.Insert(ctx, it); err != nil {
			return err
		}
		if _, err := changelog.NewSQLiteRepository(tx).Append(ctx, it.ID, changelog.OpCreated, it.Fields()); err != nil {
			return err
		}

		s.log.Debug(ctx, "item inserted", "id", it.ID, "kind", it.Kind)
		return nil
	})
}

// Update applies a field-level merge to a live item. Only the named fields
// change; each changed field gets a fresh edit timestamp. The change-log
// entry records just the changed fields, not a full snapshot. Fails with
// common.ErrNotFound if the id is absent or tombstoned.
func (s *Store) Update(ctx context.Context, id string, fields map[string]string) error {
	return s.withWriteTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := items.NewSQLiteRepository(tx)

		it, err := repo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("update %s: %w", id, err)
		}
		if it.Deleted() {
			return fmt.Errorf("update %s: %w", id, common.ErrNotFound)
		}

		changed := make(map[string]string, len(fields))
		for name, value := range fields {
			if cur, _ := it.Field(name); cur == value {
				continue
			}
			changed[name] = value
		}
		if len(changed) == 0 {
			return nil
		}

		now := s.now().UTC()
		for name, value := range changed {
			it.SetField(name, value)
			it.FieldTimes[name] = now
		}

		if err := models.Validate(it, s.rules...); err != nil {
			return err
		}

		it.LocalVersion = nextLocalVersion(it)
		it.SyncState = models.SyncPendingPush

		if err := repo.Update(ctx, it); err != nil {
			return err
		}
		if _, err := changelog.NewSQLiteRepository(tx).Append(ctx, id, changelog.OpUpdated, changed); err != nil {
			return err
		}

		s.log.Debug(ctx, "item updated", "id", id, "fields", len(changed))
		return nil
	})
}

// Delete tombstones a live item rather than erasing the row, so the
// deletion propagates during sync instead of letting a later pull resurrect
// the record. Fails with common.ErrNotFound if absent or already deleted.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.withWriteTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := items.NewSQLiteRepository(tx)

		it, err := repo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("delete %s: %w", id, err)
		}
		if it.Deleted() {
			return fmt.Errorf("delete %s: %w", id, common.ErrNotFound)
		}

		now := s.now().UTC()
		it.DeletedAt = &now
		it.LocalVersion = nextLocalVersion(it)
		it.SyncState = models.SyncPendingPush

		if err := repo.Update(ctx, it); err != nil {
			return err
		}
		if _, err := changelog.NewSQLiteRepository(tx).Append(ctx, id, changelog.OpDeleted, nil); err != nil {
			return err
		}

		s.log.Debug(ctx, "item tombstoned", "id", id)
		return nil
	})
}

// Get returns a live item by id; tombstoned items report common.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*models.Item, error) {
	it, err := items.NewSQLiteRepository(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if it.Deleted() {
		return nil, fmt.Errorf("get %s: %w", id, common.ErrNotFound)
	}
	return it, nil
}

// Snapshot reconstructs the full current state of any id on demand,
// tombstoned or not.
func (s *Store) Snapshot(ctx context.Context, id string) (*models.Item, error) {
	return items.NewSQLiteRepository(s.db).GetByID(ctx, id)
}

// QueryOptions narrows a Query call.
type QueryOptions struct {
	Kind           models.Kind
	IncludeDeleted bool
}

// Query returns items matching opts, ordered by id. Tombstones are excluded
// unless IncludeDeleted is set.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]*models.Item, error) {
	return items.NewSQLiteRepository(s.db).List(ctx, items.ListOptions{
		Kind:           opts.Kind,
		IncludeDeleted: opts.IncludeDeleted,
	})
}

// Count returns the number of live items of a kind. Backed by the kind
// index, so the bootstrap collaborator can call it on every cold start.
func (s *Store) Count(ctx context.Context, kind models.Kind) (int64, error) {
	return items.NewSQLiteRepository(s.db).CountByKind(ctx, kind)
}

// PendingItems returns items with local changes awaiting push.
func (s *Store) PendingItems(ctx context.Context) ([]*models.Item, error) {
	return items.NewSQLiteRepository(s.db).List(ctx, items.ListOptions{
		IncludeDeleted: true,
		PendingOnly:    true,
	})
}

// DeltaForItem returns the accumulated field diff for an item since the last
// backend acknowledgment: the union of its change-log entries, later entries
// winning. A "created" entry carries the full field set, so the union is the
// complete push payload for new items too.
func (s *Store) DeltaForItem(ctx context.Context, id string) (map[string]string, error) {
	entries, err := changelog.NewSQLiteRepository(s.db).ListForItem(ctx, id)
	if err != nil {
		return nil, err
	}
	delta := make(map[string]string)
	for _, e := range entries {
		for name, value := range e.Fields {
			delta[name] = value
		}
	}
	return delta, nil
}

// MarkSynced records a backend acknowledgment: RemoteVersion advances to
// remoteVersion, and if no further local edits happened since the push
// snapshot (LocalVersion still equals baseLocalVersion) the item becomes
// clean and its change log is dropped. Safe to call after the network call
// completed, however long it took.
func (s *Store) MarkSynced(ctx context.Context, id string, baseLocalVersion, remoteVersion int64) error {
	return s.withWriteTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := items.NewSQLiteRepository(tx)

		it, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		it.RemoteVersion = remoteVersion
		if it.LocalVersion == baseLocalVersion {
			it.LocalVersion = remoteVersion
			it.SyncState = models.SyncClean
			if err := changelog.NewSQLiteRepository(tx).DeleteForItem(ctx, id); err != nil {
				return err
			}
		} else if it.LocalVersion <= it.RemoteVersion {
			// interleaved local edits must stay visibly pending
			it.LocalVersion = it.RemoteVersion + 1
		}
		return repo.Update(ctx, it)
	})
}

// SetSyncState updates just the sync state marker of an item.
func (s *Store) SetSyncState(ctx context.Context, id string, state models.SyncState) error {
	return s.withWriteTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := items.NewSQLiteRepository(tx)
		it, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		it.SyncState = state
		return repo.Update(ctx, it)
	})
}

// Reconcile runs resolve under the store's single-writer discipline: it
// receives the current local state (nil if the id is unknown) and returns
// the state to persist, or nil to leave the store untouched. The whole
// exchange is one transaction, so a cancelled sync cycle always lands on an
// entity boundary. The sync engine supplies the conflict-resolution policy.
func (s *Store) Reconcile(ctx context.Context, id string, resolve func(local *models.Item) (*models.Item, error)) error {
	return s.withWriteTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := items.NewSQLiteRepository(tx)

		local, err := repo.GetByID(ctx, id)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return err
		}

		resolved, err := resolve(local)
		if err != nil {
			return err
		}
		if resolved == nil {
			return nil
		}

		if local == nil {
			if err := repo.Insert(ctx, resolved); err != nil {
				return err
			}
		} else if err := repo.Update(ctx, resolved); err != nil {
			return err
		}

		if resolved.SyncState == models.SyncClean {
			return changelog.NewSQLiteRepository(tx).DeleteForItem(ctx, id)
		}
		return nil
	})
}

// PurgeTombstones physically removes tombstones older than retention whose
// deletion the backend has acknowledged. Runs as a periodic compaction step.
func (s *Store) PurgeTombstones(ctx context.Context, retention time.Duration) (int64, error) {
	var purged int64
	err := s.withWriteTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := items.NewSQLiteRepository(tx).PurgeTombstones(ctx, s.now().UTC().Add(-retention))
		purged = n
		return err
	})
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		s.log.Info(ctx, "tombstones purged", "count", purged)
	}
	return purged, nil
}

// Meta returns the sync bookkeeping key/value repository sharing this
// store's database.
func (s *Store) Meta() metadata.Repository {
	return metadata.NewSQLiteRepository(s.db)
}
