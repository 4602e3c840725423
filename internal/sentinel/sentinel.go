// Package sentinel holds the storage-level errors every store returns, so
// the LOC service can map them to rule and domain errors in one place.
package sentinel

import "errors"

var (
	// ErrNotFound means no row exists for the key.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey means a write-once key is already taken.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrConflict means a concurrent writer won.
	ErrConflict = errors.New("concurrent update conflict")
)
