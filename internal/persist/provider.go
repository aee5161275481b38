// Package persist stores bookmark snapshots. Two backends implement the same
// Provider contract: a JSON document on disk and a SQLite database.
package persist

import "github.com/starford/raido/internal/store"

// Provider loads and saves the persisted snapshot.
type Provider interface {
	// Load returns the persisted snapshot. A missing backing file yields an
	// empty snapshot; corrupt state yields an error wrapping
	// apperr.ErrMalformedState so the caller can fall back to empty.
	Load() (store.Snapshot, error)
	// Save persists the snapshot, replacing previous state.
	Save(store.Snapshot) error
	// Close releases backend resources.
	Close() error
}
