// Package sync reconciles the local store's change log with a remote
// backend, maintaining eventual consistency across devices sharing the same
// account.
package sync

import (
	"context"
	"time"

	"github.com/akarpovs/shelfkeeper/internal/models"
)

// FieldValue is one field's value together with the wall-clock time of its
// last edit, the input to field-level last-write-wins.
type FieldValue struct {
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Delta is the push payload for one item: the fields that changed since the
// last acknowledgment (for new items, every field), tagged with the expected
// base version for optimistic concurrency.
type Delta struct {
	ID          string                `json:"id"`
	Kind        models.Kind           `json:"kind"`
	BaseVersion int64                 `json:"base_version"`
	Deleted     bool                  `json:"deleted"`
	DeletedAt   *time.Time            `json:"deleted_at,omitempty"`
	EnteredAt   time.Time             `json:"entered_at"`
	Fields      map[string]FieldValue `json:"fields"`
}

// RemoteItem is the backend's current representation of an item.
type RemoteItem struct {
	ID        string                `json:"id"`
	Kind      models.Kind           `json:"kind"`
	Version   int64                 `json:"version"`
	Deleted   bool                  `json:"deleted"`
	DeletedAt *time.Time            `json:"deleted_at,omitempty"`
	EnteredAt time.Time             `json:"entered_at"`
	Fields    map[string]FieldValue `json:"fields"`
}

// PushResult reports the backend's verdict on a Delta. On a base-version
// mismatch Accepted is false and Current carries the backend's snapshot for
// conflict resolution.
type PushResult struct {
	Accepted   bool        `json:"accepted"`
	NewVersion int64       `json:"new_version"`
	Current    *RemoteItem `json:"current,omitempty"`
}

// PullResult carries all remote changes since the requested cursor plus the
// next cursor to resume from. The cursor is an opaque backend-issued token.
type PullResult struct {
	Changes []RemoteItem `json:"changes"`
	Cursor  string       `json:"cursor"`
}

// Backend is the abstract remote collaborator. The engine depends only on
// this contract, never on a specific vendor's wire format.
type Backend interface {
	Push(ctx context.Context, delta Delta) (PushResult, error)
	Pull(ctx context.Context, cursor string) (PullResult, error)
}

// Watcher is an optional long-lived subscription to remote change
// notifications. A tick triggers a pull through the same gate and apply
// logic as a scheduled sync.
type Watcher interface {
	Watch(ctx context.Context) (<-chan struct{}, error)
}
