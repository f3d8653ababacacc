package models

import (
	"fmt"
	"slices"
	"strings"
)

// FieldError describes a single failed validation rule.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError aggregates field-level failures for one item.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for n, f := range e.Fields {
		msgs[n] = f.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Rule is an extension hook: extra checks the caller wants applied on top of
// the base rules (e.g. categorical membership via CatalogRule).
type Rule func(item *Item) []FieldError

// Validate applies the base rules (title non-empty, kind known) plus any
// extra rules, and returns nil or a *ValidationError.
func Validate(item *Item, extra ...Rule) error {
	var fields []FieldError

	if !item.Kind.Valid() {
		fields = append(fields, FieldError{Field: "kind", Message: fmt.Sprintf("unknown kind %q", item.Kind)})
	}
	if strings.TrimSpace(item.Title) == "" {
		fields = append(fields, FieldError{Field: FieldTitle, Message: "must not be empty"})
	}

	for _, rule := range extra {
		fields = append(fields, rule(item)...)
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// CatalogRule checks categorical attrs against the curated catalog sets,
// including the brand → system dependency for games. Completion flags must
// be "true" or "false".
func CatalogRule(item *Item) []FieldError {
	var fields []FieldError

	for attr, set := range categoricalSets(item.Kind) {
		v, ok := item.Attrs[attr]
		if !ok {
			continue
		}
		if !slices.Contains(set, v) {
			fields = append(fields, FieldError{Field: attr, Message: fmt.Sprintf("%q is not a known %s", v, attr)})
		}
	}

	if item.Kind == KindGame {
		if sys, ok := item.Attrs[AttrSystem]; ok && sys != DefaultUnknown {
			if !slices.Contains(SystemsForBrand(item.Attrs[AttrBrand]), sys) {
				fields = append(fields, FieldError{
					Field:   AttrSystem,
					Message: fmt.Sprintf("%q does not belong to brand %q", sys, item.Attrs[AttrBrand]),
				})
			}
		}
	}

	for _, flag := range []string{AttrIsPlayed, AttrIsWatched, AttrIsRead} {
		if v, ok := item.Attrs[flag]; ok && v != FlagTrue && v != FlagFalse {
			fields = append(fields, FieldError{Field: flag, Message: "must be true or false"})
		}
	}

	return fields
}
