package sync

import (
	"time"

	"github.com/akarpovs/shelfkeeper/internal/models"
)

// Conflict policy (deliberate, not incidental):
//
//  1. A tombstone on either side always wins over field edits, so a deleted
//     record is never resurrected by a concurrent edit.
//  2. Otherwise each field resolves independently by last-write-wins on
//     wall-clock edit time; remote wins ties.
//
// merge never mutates its inputs. The returned item's SyncState tells the
// caller whether anything local survived and still needs pushing.

// itemFromRemote materializes a backend snapshot as a clean local item.
// Catalog defaults are laid down first so every documented attr is present
// even if the backend omits some.
func itemFromRemote(remote RemoteItem) *models.Item {
	it := &models.Item{
		ID:            remote.ID,
		Kind:          remote.Kind,
		Notes:         "",
		EnteredAt:     remote.EnteredAt,
		Attrs:         models.DefaultAttrs(remote.Kind),
		LocalVersion:  remote.Version,
		RemoteVersion: remote.Version,
		SyncState:     models.SyncClean,
		FieldTimes:    make(map[string]time.Time, len(remote.Fields)),
	}
	for name, fv := range remote.Fields {
		it.SetField(name, fv.Value)
		it.FieldTimes[name] = fv.UpdatedAt
	}
	if remote.Deleted {
		t := remote.EnteredAt
		if remote.DeletedAt != nil {
			t = *remote.DeletedAt
		}
		it.DeletedAt = &t
	}
	return it
}

// merge reconciles a locally modified item with the backend's snapshot.
func merge(local *models.Item, remote RemoteItem) *models.Item {
	// Delete wins, whichever side it happened on.
	if remote.Deleted {
		return itemFromRemote(remote)
	}
	if local.Deleted() {
		out := local.Clone()
		out.RemoteVersion = remote.Version
		out.LocalVersion = remote.Version + 1
		out.SyncState = models.SyncPendingPush
		return out
	}

	out := local.Clone()
	out.RemoteVersion = remote.Version

	localWon := false
	for name, fv := range remote.Fields {
		localTime, edited := local.FieldTimes[name]
		localValue, _ := local.Field(name)
		if edited && localTime.After(fv.UpdatedAt) && localValue != fv.Value {
			localWon = true
			continue
		}
		out.SetField(name, fv.Value)
		out.FieldTimes[name] = fv.UpdatedAt
	}

	// A local edit to a field the remote change does not mention also has
	// to survive and be pushed.
	for name, localTime := range local.FieldTimes {
		if _, mentioned := remote.Fields[name]; mentioned {
			continue
		}
		if localTime.After(remoteBaseline(remote)) {
			localWon = true
		}
	}

	if localWon {
		out.LocalVersion = remote.Version + 1
		out.SyncState = models.SyncPendingPush
	} else {
		out.LocalVersion = remote.Version
		out.SyncState = models.SyncClean
	}
	return out
}

// remoteBaseline is the newest edit time the remote snapshot carries, used
// to judge fields the snapshot does not mention.
func remoteBaseline(remote RemoteItem) time.Time {
	var max time.Time
	for _, fv := range remote.Fields {
		if fv.UpdatedAt.After(max) {
			max = fv.UpdatedAt
		}
	}
	return max
}
