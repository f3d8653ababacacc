package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/akarpovs/shelfkeeper/internal/common"
	"github.com/akarpovs/shelfkeeper/internal/logging"
	"github.com/akarpovs/shelfkeeper/internal/models"
	"github.com/akarpovs/shelfkeeper/internal/repositories/metadata"
	"github.com/akarpovs/shelfkeeper/internal/store"
)

// Config holds engine tuning knobs.
type Config struct {
	// MaxRetries bounds the retry budget per network call.
	MaxRetries uint64

	// RetryBase is the first backoff step; subsequent steps grow
	// exponentially with jitter.
	RetryBase time.Duration

	// RetryJitter is the random spread added to each backoff step.
	RetryJitter time.Duration

	// Retention is how long acknowledged tombstones are kept before the
	// post-sync compaction step may purge them.
	Retention time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.MaxRetries = 5
	c.RetryBase = 500 * time.Millisecond
	c.RetryJitter = 100 * time.Millisecond
	c.Retention = 30 * 24 * time.Hour
}

// Engine reconciles the local store with a remote backend. Cycles for one
// store never overlap: a trigger while a cycle is in flight coalesces into
// exactly one follow-up cycle, keeping the optimistic-concurrency
// bookkeeping correct.
type Engine struct {
	store   *store.Store
	backend Backend
	cfg     Config
	log     logging.Logger

	mu      sync.Mutex
	running bool
	queued  bool
}

// New returns an Engine. A zero Config is replaced with defaults.
func New(st *store.Store, backend Backend, cfg Config, log logging.Logger) *Engine {
	if cfg.MaxRetries == 0 {
		cfg.LoadDefaults()
	}
	if log == nil {
		log = logging.Nop{}
	}
	return &Engine{
		store:   st,
		backend: backend,
		cfg:     cfg,
		log:     log.With("component", "sync"),
	}
}

// Sync runs full cycles (push, pull, compaction) until no trigger is
// queued. A call arriving while a cycle is running queues one follow-up
// cycle and returns nil immediately; foreground CRUD is never blocked on
// sync. Network failures are retried internally and, once the retry budget
// is exhausted, recorded as the persistent last-sync status.
func (e *Engine) Sync(ctx context.Context) error {
	e.mu.Lock()
	if e.running {
		e.queued = true
		e.mu.Unlock()
		return nil
	}
	e.running = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	// Bounded so a backend that keeps conflicting cannot spin the loop;
	// anything left pending goes out on the next trigger.
	for i := 0; i < maxCyclesPerSync; i++ {
		err := e.cycle(ctx)
		e.recordStatus(ctx, err)
		if err != nil {
			return err
		}

		e.mu.Lock()
		again := e.queued
		e.queued = false
		e.mu.Unlock()
		if !again {
			return nil
		}
	}
	return nil
}

const maxCyclesPerSync = 5

// cycle runs one push phase, one pull phase and the tombstone compaction.
// Cancellation is cooperative: checked between per-item operations so a
// cancelled cycle always leaves each item fully applied or untouched.
func (e *Engine) cycle(ctx context.Context) error {
	if err := e.push(ctx); err != nil {
		return err
	}
	if err := e.pull(ctx); err != nil {
		return err
	}

	if _, err := e.store.PurgeTombstones(ctx, e.cfg.Retention); err != nil {
		return err
	}
	return nil
}

func (e *Engine) push(ctx context.Context) error {
	pending, err := e.store.PendingItems(ctx)
	if err != nil {
		return err
	}

	for _, it := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.pushItem(ctx, it); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) pushItem(ctx context.Context, it *models.Item) error {
	delta, err := e.deltaFor(ctx, it)
	if err != nil {
		return err
	}

	var res PushResult
	err = e.withRetry(ctx, func(ctx context.Context) error {
		var perr error
		res, perr = e.backend.Push(ctx, delta)
		return perr
	})
	if err != nil {
		return fmt.Errorf("push %s: %w: %v", it.ID, common.ErrBackendUnavailable, err)
	}

	if res.Accepted {
		e.log.Debug(ctx, "push accepted", "id", it.ID, "version", res.NewVersion)
		// the backend already took the write; record the ack even if the
		// cycle was cancelled mid-flight, so this item lands whole
		return e.store.MarkSynced(context.WithoutCancel(ctx), it.ID, it.LocalVersion, res.NewVersion)
	}

	// Base-version mismatch: resolve against the backend's snapshot. The
	// merged result stays pending if any local field survived and is pushed
	// on the follow-up cycle.
	if res.Current == nil {
		return fmt.Errorf("push %s: %w", it.ID, common.ErrVersionConflict)
	}
	e.log.Info(ctx, "push conflict", "id", it.ID, "remote_version", res.Current.Version)
	if err := e.applyRemote(ctx, *res.Current); err != nil {
		return err
	}
	e.trigger()
	return nil
}

// deltaFor builds the push payload for an item: its accumulated field diff
// with per-field edit times, or a tombstone marker.
func (e *Engine) deltaFor(ctx context.Context, it *models.Item) (Delta, error) {
	delta := Delta{
		ID:          it.ID,
		Kind:        it.Kind,
		BaseVersion: it.RemoteVersion,
		EnteredAt:   it.EnteredAt,
	}
	if it.Deleted() {
		delta.Deleted = true
		delta.DeletedAt = it.DeletedAt
		return delta, nil
	}

	// The change log names the fields to send; the values come from the
	// item's current state so a field that just lost a merge carries the
	// winning value, not the stale logged one.
	fields, err := e.store.DeltaForItem(ctx, it.ID)
	if err != nil {
		return Delta{}, err
	}
	delta.Fields = make(map[string]FieldValue, len(fields))
	for name := range fields {
		value, _ := it.Field(name)
		delta.Fields[name] = FieldValue{Value: value, UpdatedAt: it.FieldTimes[name]}
	}
	return delta, nil
}

func (e *Engine) pull(ctx context.Context) error {
	meta := e.store.Meta()
	cursor, err := meta.Get(ctx, metadata.KeySyncCursor)
	if err != nil {
		return err
	}

	var res PullResult
	err = e.withRetry(ctx, func(ctx context.Context) error {
		var perr error
		res, perr = e.backend.Pull(ctx, string(cursor))
		return perr
	})
	if err != nil {
		return fmt.Errorf("pull: %w: %v", common.ErrBackendUnavailable, err)
	}

	for _, change := range res.Changes {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.applyRemote(ctx, change); err != nil {
			return err
		}
	}

	// The cursor only advances once every change landed, so an interrupted
	// pull re-fetches rather than skips.
	if err := meta.Set(ctx, metadata.KeySyncCursor, []byte(res.Cursor)); err != nil {
		return err
	}
	e.log.Debug(ctx, "pull applied", "changes", len(res.Changes), "cursor", res.Cursor)
	return nil
}

// applyRemote lands one backend change in the store under the single-writer
// discipline. Locally clean items take the remote state directly; locally
// modified items go through the conflict policy in merge.go.
func (e *Engine) applyRemote(ctx context.Context, change RemoteItem) error {
	var survived bool
	err := e.store.Reconcile(ctx, change.ID, func(local *models.Item) (*models.Item, error) {
		switch {
		case local == nil:
			if change.Deleted {
				// never seen locally; nothing to tombstone
				return nil, nil
			}
			return itemFromRemote(change), nil
		case !local.Pending():
			return itemFromRemote(change), nil
		default:
			merged := merge(local, change)
			survived = merged.SyncState == models.SyncPendingPush
			return merged, nil
		}
	})
	if err != nil {
		return err
	}
	if survived {
		// surviving local edits go out on a coalesced follow-up cycle
		e.trigger()
	}
	return nil
}

func (e *Engine) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.NewExponential(e.cfg.RetryBase)
	backoff = retry.WithJitter(e.cfg.RetryJitter, backoff)
	backoff = retry.WithMaxRetries(e.cfg.MaxRetries, backoff)

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return retry.RetryableError(err)
		}
		return nil
	})
}

// trigger queues one follow-up cycle on the running Sync call.
func (e *Engine) trigger() {
	e.mu.Lock()
	e.queued = true
	e.mu.Unlock()
}

// recordStatus persists the sync outcome so the presentation layer can show
// an offline/stale indicator instead of blocking on errors.
func (e *Engine) recordStatus(ctx context.Context, syncErr error) {
	meta := e.store.Meta()
	if err := meta.Set(ctx, metadata.KeyLastSyncAt, []byte(time.Now().UTC().Format(time.RFC3339))); err != nil {
		e.log.Warn(ctx, "failed to record sync time", "error", err)
		return
	}
	if syncErr != nil {
		e.log.Error(ctx, "sync failed", "error", syncErr)
		_ = meta.Set(ctx, metadata.KeyLastSyncError, []byte(syncErr.Error()))
		return
	}
	_ = meta.Delete(ctx, metadata.KeyLastSyncError)
}

// RunLoop drives periodic sync cycles and, when the backend supports change
// notifications, immediate pulls on notification. Both paths go through
// Sync's gate, so cycles never overlap. Blocks until ctx is cancelled.
func (e *Engine) RunLoop(ctx context.Context, interval time.Duration) error {
	var notify <-chan struct{}
	if w, ok := e.backend.(Watcher); ok {
		ch, err := w.Watch(ctx)
		if err != nil {
			e.log.Warn(ctx, "change notifications unavailable", "error", err)
		} else {
			notify = ch
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-notify:
		}
		if err := e.Sync(ctx); err != nil {
			e.log.Warn(ctx, "sync cycle failed, will retry on next trigger", "error", err)
		}
	}
}
