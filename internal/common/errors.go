// Package common defines shared sentinel errors used across the
// shelfkeeper store, sync engine and export service. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Store-level errors.
	ErrDuplicateID = errors.New("duplicate id")
	ErrNotFound    = errors.New("not found")

	// Sync-level errors.
	ErrVersionConflict    = errors.New("version conflict")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrSyncInProgress     = errors.New("sync already in progress")

	// Export-level errors (non-retryable, surfaced immediately).
	ErrExportIO = errors.New("export i/o error")
)
