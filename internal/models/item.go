// Package models defines the collectible item types, their kind-specific
// field catalogs and validation rules.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Kind classifies a collectible item.
type Kind string

const (
	KindGame  Kind = "game"
	KindMovie Kind = "movie"
	KindComic Kind = "comic"
)

// Kinds lists all supported kinds in a fixed order.
var Kinds = []Kind{KindGame, KindMovie, KindComic}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindGame, KindMovie, KindComic:
		return true
	}
	return false
}

// SyncState tracks where an item stands relative to the remote backend.
type SyncState string

const (
	SyncClean       SyncState = "clean"
	SyncPendingPush SyncState = "pending_push"
	SyncPendingPull SyncState = "pending_pull"
	SyncConflict    SyncState = "conflict"
)

// Field names shared by every kind. Kind-specific attribute names live in
// the catalog (see AttrKeys).
const (
	FieldTitle = "title"
	FieldNotes = "notes"
)

// Item is a collectible record persisted locally and synced with a backend.
//
// ID is assigned client-side at draft creation and is immutable. EnteredAt
// is stamped on first persist and is never user-editable. Notes defaults to
// "" and is never missing. Attrs always carries every kind-specific field,
// populated with catalog defaults at draft creation, so read sites never
// have to null-coalesce.
type Item struct {
	ID    string
	Kind  Kind
	Title string
	Notes string

	// EnteredAt is zero while the item is still a draft.
	EnteredAt time.Time

	// Attrs holds the kind-specific fields (categorical, free-text, date
	// and completion-flag values), all represented as strings.
	Attrs map[string]string

	// DeletedAt marks the item as a tombstone kept for sync.
	DeletedAt *time.Time

	// LocalVersion is bumped on every local mutation; RemoteVersion is the
	// last version acknowledged by the backend.
	LocalVersion  int64
	RemoteVersion int64
	SyncState     SyncState

	// FieldTimes records the wall-clock time of the last local edit per
	// field, used for field-level last-write-wins during sync.
	FieldTimes map[string]time.Time
}

// NewDraft returns a fresh in-memory draft of the given kind: new unique id,
// empty title, zero EnteredAt and all kind-specific attrs at their catalog
// defaults. The draft is not persisted until Store.Insert.
func NewDraft(kind Kind) *Item {
	return &Item{
		ID:         uuid.NewString(),
		Kind:       kind,
		Notes:      "",
		Attrs:      DefaultAttrs(kind),
		SyncState:  SyncClean,
		FieldTimes: make(map[string]time.Time),
	}
}

// Deleted reports whether the item is a tombstone.
func (i *Item) Deleted() bool {
	return i.DeletedAt != nil
}

// Pending reports whether the item has local changes awaiting push.
func (i *Item) Pending() bool {
	return i.LocalVersion > i.RemoteVersion
}

// Field returns the value of a named field, looking through the common
// envelope first and falling back to Attrs.
func (i *Item) Field(name string) (string, bool) {
	switch name {
	case FieldTitle:
		return i.Title, true
	case FieldNotes:
		return i.Notes, true
	}
	v, ok := i.Attrs[name]
	return v, ok
}

// SetField assigns a named field, routing the common envelope fields to
// their struct members and everything else to Attrs.
func (i *Item) SetField(name, value string) {
	switch name {
	case FieldTitle:
		i.Title = value
	case FieldNotes:
		i.Notes = value
	default:
		if i.Attrs == nil {
			i.Attrs = make(map[string]string)
		}
		i.Attrs[name] = value
	}
}

// Fields flattens the item into a field name → value map covering the
// common envelope and all kind-specific attrs.
func (i *Item) Fields() map[string]string {
	m := make(map[string]string, len(i.Attrs)+2)
	m[FieldTitle] = i.Title
	m[FieldNotes] = i.Notes
	for k, v := range i.Attrs {
		m[k] = v
	}
	return m
}

// Clone returns a deep copy of the item.
func (i *Item) Clone() *Item {
	c := *i
	c.Attrs = make(map[string]string, len(i.Attrs))
	for k, v := range i.Attrs {
		c.Attrs[k] = v
	}
	c.FieldTimes = make(map[string]time.Time, len(i.FieldTimes))
	for k, v := range i.FieldTimes {
		c.FieldTimes[k] = v
	}
	if i.DeletedAt != nil {
		t := *i.DeletedAt
		c.DeletedAt = &t
	}
	return &c
}
