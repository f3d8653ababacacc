package items

import (
	"context"
	"time"

	"github.com/akarpovs/shelfkeeper/internal/models"
)

// ListOptions narrows a List call.
type ListOptions struct {
	// Kind restricts results to one kind when non-empty.
	Kind models.Kind

	// IncludeDeleted also returns tombstoned rows.
	IncludeDeleted bool

	// PendingOnly returns only rows with local changes awaiting push.
	PendingOnly bool
}

// Repository describes row-level persistence for collectible items.
// Implementations are backed by the local SQLite database. Uniqueness and
// lifecycle rules (duplicate-id, tombstoning) are enforced one level up by
// the store facade.
type Repository interface {
	// Insert adds a new row. The id must not exist yet.
	Insert(ctx context.Context, item *models.Item) error

	// Update replaces an existing row by id.
	Update(ctx context.Context, item *models.Item) error

	// GetByID returns a row by id, tombstoned or not.
	GetByID(ctx context.Context, id string) (*models.Item, error)

	// List returns rows matching opts, ordered by id for determinism.
	List(ctx context.Context, opts ListOptions) ([]*models.Item, error)

	// CountByKind returns the number of live (non-tombstoned) rows of a kind.
	CountByKind(ctx context.Context, kind models.Kind) (int64, error)

	// PurgeTombstones physically removes tombstoned rows deleted before
	// cutoff whose deletion the backend has already acknowledged. Returns
	// the number of rows removed.
	PurgeTombstones(ctx context.Context, cutoff time.Time) (int64, error)
}
