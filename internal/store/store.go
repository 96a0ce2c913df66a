// Package store provides the pluggable key-value snapshot sink used by the
// event logger's best-effort persistence.
//
// The Store interface is deliberately minimal: named blobs in, named blobs
// out. All failure modes are non-fatal by contract; callers report errors
// and continue in memory.
package store

import "errors"

// ErrNotFound is returned by Get when no blob exists under the name.
var ErrNotFound = errors.New("snapshot not found")

// Store is a minimal key-value sink for snapshot blobs.
type Store interface {
	// Put writes a blob under the given name, replacing any prior value.
	Put(name string, blob []byte) error

	// Get reads the blob stored under the name. Returns ErrNotFound when
	// the name has no value.
	Get(name string) ([]byte, error)

	// Remove deletes the blob stored under the name. Removing a missing
	// name is not an error.
	Remove(name string) error

	// Close releases underlying resources.
	Close() error
}
