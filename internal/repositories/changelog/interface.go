package changelog

import (
	"context"
	"time"
)

// Op classifies a change-log entry.
type Op string

const (
	OpCreated Op = "created"
	OpUpdated Op = "updated"
	OpDeleted Op = "deleted"
)

// Entry is one recorded mutation. Fields holds only the field names and new
// values the mutation touched, not a full snapshot, so push payloads stay
// small.
type Entry struct {
	Seq       int64
	ItemID    string
	Op        Op
	Fields    map[string]string
	CreatedAt time.Time
}

// Repository is the append-only mutation log backing local change detection.
// Seq is assigned by the database and is strictly monotonic per store.
type Repository interface {
	// Append records a mutation and returns its sequence number.
	Append(ctx context.Context, itemID string, op Op, fields map[string]string) (int64, error)

	// ListForItem returns an item's entries in seq order.
	ListForItem(ctx context.Context, itemID string) ([]Entry, error)

	// DeleteForItem drops an item's entries once the backend has
	// acknowledged them.
	DeleteForItem(ctx context.Context, itemID string) error
}
