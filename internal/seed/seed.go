// Package seed populates an empty collection with a handful of starter
// records so a fresh install has something to browse. Seeding is gated per
// kind on an empty count and therefore idempotent.
package seed

import (
	"context"
	"fmt"

	"github.com/akarpovs/shelfkeeper/internal/logging"
	"github.com/akarpovs/shelfkeeper/internal/models"
	"github.com/akarpovs/shelfkeeper/internal/store"
)

type sample struct {
	title string
	attrs map[string]string
}

var samples = map[models.Kind][]sample{
	models.KindGame: {
		{title: "The Legend of Zelda: Breath of the Wild", attrs: map[string]string{
			models.AttrBrand:  "Nintendo",
			models.AttrSystem: "Nintendo Switch",
			models.AttrGenre:  "Adventure",
			models.AttrRating: "E10+",
		}},
		{title: "Halo Infinite", attrs: map[string]string{
			models.AttrBrand:  "Xbox",
			models.AttrSystem: "Xbox Series S/X",
			models.AttrGenre:  "Shooter",
			models.AttrRating: "T",
		}},
	},
	models.KindMovie: {
		{title: "The Matrix", attrs: map[string]string{
			models.AttrStudio: "Warner Bros.",
			models.AttrGenre:  "Sci-Fi",
			models.AttrRating: "R",
		}},
	},
	models.KindComic: {
		{title: "Saga", attrs: map[string]string{
			models.AttrPublisher:   "Image",
			models.AttrGenre:       "Sci-Fi",
			models.AttrSeries:      "Saga",
			models.AttrIssueNumber: "1",
		}},
	},
}

// EnsureSampleData inserts the starter records for every kind whose
// collection is empty. Kinds that already hold items, including ones whose
// only rows are tombstones, are left alone.
func EnsureSampleData(ctx context.Context, s *store.Store, log logging.Logger) error {
	if log == nil {
		log = logging.Nop{}
	}

	for _, kind := range models.Kinds {
		n, err := s.Count(ctx, kind)
		if err != nil {
			return fmt.Errorf("seed %s: %w", kind, err)
		}
		if n > 0 {
			continue
		}

		for _, smp := range samples[kind] {
			it := models.NewDraft(kind)
			it.Title = smp.title
			for k, v := range smp.attrs {
				it.Attrs[k] = v
			}
			if err := s.Insert(ctx, it); err != nil {
				return fmt.Errorf("seed %s: %w", kind, err)
			}
		}
		log.Info(ctx, "seeded starter records", "kind", kind, "count", len(samples[kind]))
	}
	return nil
}
