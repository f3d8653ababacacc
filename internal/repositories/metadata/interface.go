package metadata

import (
	"context"
)

// Well-known keys.
const (
	KeySyncCursor    = "sync_cursor"
	KeyLastSyncAt    = "last_sync_at"
	KeyLastSyncError = "last_sync_error"
)

/// Repository is a small key/value table holding sync bookkeeping: the
// backend-issued cursor and the last sync status.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
