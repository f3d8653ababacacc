package models

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Curated reference data. These sets are advisory: the store accepts any
// string, the presentation layer restricts input to them, and CatalogRule
// enforces membership centrally when callers opt in.

// Attribute names used across kinds.
const (
	AttrGenre        = "genre"
	AttrRating       = "rating"
	AttrBrand        = "brand"
	AttrSystem       = "system"
	AttrStudio       = "studio"
	AttrPublisher    = "publisher"
	AttrSeries       = "series"
	AttrIssueNumber  = "issueNumber"
	AttrLocation     = "location"
	AttrPurchaseDate = "purchaseDate"
	AttrReleaseDate  = "releaseDate"
	AttrIsPlayed     = "isPlayed"
	AttrIsWatched    = "isWatched"
	AttrIsRead       = "isRead"
)

// Default values for optional categorical fields.
const (
	DefaultNone    = "None"
	DefaultUnrated = "Unrated"
	DefaultUnknown = "Unknown"
	DefaultOther   = "Other"
	FlagFalse      = "false"
	FlagTrue       = "true"
)

var GameGenres = []string{
	DefaultNone, "Action", "Adventure", "Fighting", "Platformer", "Puzzle",
	"Racing", "RPG", "Shooter", "Simulation", "Sports", "Strategy",
}

var MovieGenres = []string{
	DefaultNone, "Action", "Comedy", "Documentary", "Drama", "Fantasy",
	"Horror", "Musical", "Romance", "Sci-Fi", "Thriller", "Western",
}

var ComicGenres = []string{
	DefaultNone, "Action", "Crime", "Fantasy", "Horror", "Humor",
	"Sci-Fi", "Superhero", "Slice of Life", "Western",
}

var GameRatings = []string{DefaultUnrated, "E", "E10+", "T", "M", "AO", "RP"}

var MovieRatings = []string{DefaultUnrated, "G", "PG", "PG-13", "R", "NC-17"}

var ComicRatings = []string{
	DefaultUnrated, "All Ages", "Teen", "Teen+", "Parental Advisory", "Mature",
}

var GameBrands = []string{"Nintendo", "PlayStation", "Xbox", "Sega", "PC", DefaultOther}

var Publishers = []string{
	DefaultUnknown, "Marvel", "DC", "Image", "Dark Horse", "IDW", "Valiant", "Independent",
}

var Studios = []string{
	DefaultUnknown, "20th Century", "Disney", "Paramount", "Sony Pictures",
	"Universal", "Warner Bros.", "A24", "Independent",
}

var Locations = []string{
	DefaultUnknown, "Shelf", "Cabinet", "Storage", "Digital", "Loaned Out",
}

// systemsByBrand is the fixed brand → systems table. Unknown brands fall
// back to the "Other" list.
var systemsByBrand = map[string][]string{
	"Nintendo": {
		"NES", "SNES", "Nintendo 64", "GameCube", "Wii", "Wii U",
		"Nintendo Switch", "Game Boy", "Game Boy Advance", "Nintendo DS",
		"Nintendo 3DS",
	},
	"PlayStation": {
		"PlayStation", "PlayStation 2", "PlayStation 3", "PlayStation 4",
		"PlayStation 5", "PSP", "PS Vita",
	},
	"Xbox": {
		"Xbox", "Xbox 360", "Xbox One", "Xbox Series S/X",
	},
	"Sega": {
		"Master System", "Genesis", "Sega CD", "32X", "Saturn", "Dreamcast",
		"Game Gear",
	},
	"PC": {
		"Windows", "macOS", "Linux", "Steam Deck",
	},
	DefaultOther: {
		"Atari 2600", "Atari 5200", "Atari 7800", "ColecoVision",
		"Intellivision", "Neo Geo", "TurboGrafx-16", DefaultUnknown,
	},
}

// SystemsForBrand returns the systems belonging to a brand, sorted
// lexicographically. Pure: the result is a fresh copy on every call, and the
// ordering is deterministic. An unknown brand yields the "Other" list.
func SystemsForBrand(brand string) []string {
	src, ok := systemsByBrand[brand]
	if !ok {
		src = systemsByBrand[DefaultOther]
	}
	out := make([]string, len(src))
	copy(out, src)
	collate.New(language.Und).SortStrings(out)
	return out
}

// DefaultAttrs returns the full kind-specific attribute set with documented
// defaults. Every key that AttrKeys(kind) lists is present.
func DefaultAttrs(kind Kind) map[string]string {
	switch kind {
	case KindGame:
		return map[string]string{
			AttrGenre:        DefaultNone,
			AttrRating:       DefaultUnrated,
			AttrBrand:        DefaultOther,
			AttrSystem:       DefaultUnknown,
			AttrLocation:     DefaultUnknown,
			AttrPurchaseDate: "",
			AttrReleaseDate:  "",
			AttrIsPlayed:     FlagFalse,
		}
	case KindMovie:
		return map[string]string{
			AttrGenre:        DefaultNone,
			AttrRating:       DefaultUnrated,
			AttrStudio:       DefaultUnknown,
			AttrLocation:     DefaultUnknown,
			AttrPurchaseDate: "",
			AttrReleaseDate:  "",
			AttrIsWatched:    FlagFalse,
		}
	case KindComic:
		return map[string]string{
			AttrGenre:        DefaultNone,
			AttrRating:       DefaultUnrated,
			AttrPublisher:    DefaultUnknown,
			AttrSeries:       "",
			AttrIssueNumber:  "",
			AttrLocation:     DefaultUnknown,
			AttrPurchaseDate: "",
			AttrReleaseDate:  "",
			AttrIsRead:       FlagFalse,
		}
	}
	return map[string]string{}
}

// AttrKeys returns the kind-specific attribute names in their fixed,
// documented order. The export service relies on this order for CSV columns.
func AttrKeys(kind Kind) []string {
	switch kind {
	case KindGame:
		return []string{
			AttrGenre, AttrRating, AttrBrand, AttrSystem, AttrLocation,
			AttrPurchaseDate, AttrReleaseDate, AttrIsPlayed,
		}
	case KindMovie:
		return []string{
			AttrGenre, AttrRating, AttrStudio, AttrLocation,
			AttrPurchaseDate, AttrReleaseDate, AttrIsWatched,
		}
	case KindComic:
		return []string{
			AttrGenre, AttrRating, AttrPublisher, AttrSeries, AttrIssueNumber,
			AttrLocation, AttrPurchaseDate, AttrReleaseDate, AttrIsRead,
		}
	}
	return nil
}

// categoricalSets maps kind → attr name → allowed values, for strict
// validation. Free-text and date attrs are absent on purpose.
func categoricalSets(kind Kind) map[string][]string {
	switch kind {
	case KindGame:
		return map[string][]string{
			AttrGenre:    GameGenres,
			AttrRating:   GameRatings,
			AttrBrand:    GameBrands,
			AttrLocation: Locations,
		}
	case KindMovie:
		return map[string][]string{
			AttrGenre:    MovieGenres,
			AttrRating:   MovieRatings,
			AttrStudio:   Studios,
			AttrLocation: Locations,
		}
	case KindComic:
		return map[string][]string{
			AttrGenre:     ComicGenres,
			AttrRating:    ComicRatings,
			AttrPublisher: Publishers,
			AttrLocation:  Locations,
		}
	}
	return nil
}
