// Package export produces flat CSV snapshots of one collection kind at a
// time. Quoting follows RFC 4180 via encoding/csv, so commas and newlines
// inside free-text fields survive a round trip.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/akarpovs/shelfkeeper/internal/common"
	"github.com/akarpovs/shelfkeeper/internal/models"
	"github.com/akarpovs/shelfkeeper/internal/store"
)

// Options narrows an export.
type Options struct {
	// IncludeDeleted also exports tombstoned records, adding a deletedDate
	// column.
	IncludeDeleted bool
}

// Service reads snapshots from the store and serializes them. It never
// mutates the store.
type Service struct {
	store *store.Store
}

func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

// Header returns the fixed column order for a kind: the common envelope
// first, then the kind's attributes in catalog order.
func Header(kind models.Kind, opts Options) []string {
	h := []string{"id", "title", "notes", "enteredDate"}
	h = append(h, models.AttrKeys(kind)...)
	if opts.IncludeDeleted {
		h = append(h, "deletedDate")
	}
	return h
}

// Row stringifies one item in the fixed column order.
func Row(it *models.Item, opts Options) []string {
	row := []string{it.ID, it.Title, it.Notes, it.EnteredAt.UTC().Format(time.RFC3339)}
	for _, key := range models.AttrKeys(it.Kind) {
		row = append(row, it.Attrs[key])
	}
	if opts.IncludeDeleted {
		deleted := ""
		if it.DeletedAt != nil {
			deleted = it.DeletedAt.UTC().Format(time.RFC3339)
		}
		row = append(row, deleted)
	}
	return row
}

// Rows produces the header plus one row per item, ordered by title with an
// id tie-break for reproducible output.
func Rows(items []*models.Item, kind models.Kind, opts Options) [][]string {
	sorted := make([]*models.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Title != sorted[j].Title {
			return sorted[i].Title < sorted[j].Title
		}
		return sorted[i].ID < sorted[j].ID
	})

	out := make([][]string, 0, len(sorted)+1)
	out = append(out, Header(kind, opts))
	for _, it := range sorted {
		out = append(out, Row(it, opts))
	}
	return out
}

// WriteCSV exports one kind as UTF-8 CSV to w.
func (s *Service) WriteCSV(ctx context.Context, w io.Writer, kind models.Kind, opts Options) error {
	items, err := s.store.Query(ctx, store.QueryOptions{
		Kind:           kind,
		IncludeDeleted: opts.IncludeDeleted,
	})
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(Rows(items, kind, opts)); err != nil {
		return fmt.Errorf("%w: %v", common.ErrExportIO, err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrExportIO, err)
	}
	return nil
}

// ExportToFile writes one kind's CSV snapshot to path. Filesystem failures
// surface as common.ErrExportIO.
func (s *Service) ExportToFile(ctx context.Context, path string, kind models.Kind, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrExportIO, err)
	}

	if err := s.WriteCSV(ctx, f, kind, opts); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrExportIO, err)
	}
	return nil
}
