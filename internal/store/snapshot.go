package store

import (
	"sort"

	"github.com/starford/raido/internal/bookmark"
)

// Entry is one bookmark in the persisted snapshot.
type Entry struct {
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Label  string `json:"label"`
}

// Snapshot is the persisted document shape: normalized path to bookmarks in
// line order. An absent key means no bookmarks for that file. encoding/json
// marshals map keys sorted, so serialization is deterministic.
type Snapshot map[string][]Entry

// Serialize produces a snapshot of every non-empty set.
func (s *Store) Serialize() Snapshot {
	snap := make(Snapshot)
	for _, key := range s.order {
		set := s.files[key]
		if !set.HasBookmarks() {
			continue
		}
		entries := make([]Entry, 0, set.Len())
		for b := range set.All() {
			entries = append(entries, Entry{Line: b.Line, Column: b.Column, Label: b.Label})
		}
		snap[key] = entries
	}
	return snap
}

// Deserialize hydrates the store from a snapshot, replacing current state.
// Malformed entries (negative line, duplicate line within a file) and
// unresolvable paths are discarded rather than failing the whole load; the
// count of discarded items is returned so callers can log the loss. Negative
// columns are clamped to zero. Paths are loaded in sorted order so the
// resulting insertion order is reproducible.
func (s *Store) Deserialize(snap Snapshot) (discarded int) {
	s.RemoveAllFiles()

	paths := make([]string, 0, len(snap))
	for p := range snap {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		set, err := s.EnsureFile(p)
		if err != nil {
			discarded += len(snap[p])
			continue
		}
		for _, e := range snap[p] {
			if e.Line < 0 {
				discarded++
				continue
			}
			col := e.Column
			if col < 0 {
				col = 0
			}
			if err := set.Add(bookmark.Bookmark{Line: e.Line, Column: col, Label: e.Label}); err != nil {
				discarded++
			}
		}
	}
	return discarded
}
