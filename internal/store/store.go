// Package store holds the process-wide collection of per-file bookmark sets,
// keyed by normalized path, with a stable insertion order for cross-file
// navigation and a non-owning "active file" pointer.
package store

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/bookmark"
)

// Store maps normalized file paths to their bookmark sets. Insertion order is
// preserved so cross-file iteration is deterministic.
type Store struct {
	files  map[string]*bookmark.FileSet
	order  []string // normalized paths in insertion order
	active string   // normalized path key, "" when unresolved

	foldCase bool
}

// Option configures a Store.
type Option func(*Store)

// WithCaseInsensitivePaths makes path comparison case-insensitive, for hosts
// on case-insensitive filesystems.
func WithCaseInsensitivePaths() Option {
	return func(s *Store) {
		s.foldCase = true
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{files: make(map[string]*bookmark.FileSet)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Normalize resolves a path to its canonical absolute form used as the store
// key. Returns apperr.ErrInvalidPath for empty or unresolvable paths.
func (s *Store) Normalize(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", apperr.ErrInvalidPath
	}
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("%w: %s", apperr.ErrInvalidPath, path)
	}
	if s.foldCase {
		abs = strings.ToLower(abs)
	}
	return abs, nil
}

// EnsureFile returns the set for path, creating and registering an empty one
// if the path is new. Idempotent.
func (s *Store) EnsureFile(path string) (*bookmark.FileSet, error) {
	key, err := s.Normalize(path)
	if err != nil {
		return nil, err
	}
	if set, ok := s.files[key]; ok {
		return set, nil
	}
	set := bookmark.NewFileSet(key)
	s.files[key] = set
	s.order = append(s.order, key)
	return set, nil
}

// Lookup returns the set for path without creating one.
func (s *Store) Lookup(path string) (*bookmark.FileSet, bool) {
	key, err := s.Normalize(path)
	if err != nil {
		return nil, false
	}
	set, ok := s.files[key]
	return set, ok
}

// SetActive re-resolves the active pointer to the given path. If the path is
// unknown the active pointer becomes unset; callers must handle absence.
func (s *Store) SetActive(path string) {
	key, err := s.Normalize(path)
	if err != nil {
		s.active = ""
		return
	}
	if _, ok := s.files[key]; !ok {
		s.active = ""
		return
	}
	s.active = key
}

// Active resolves the active pointer against current state. The pointer is a
// path key, never a cached set reference, so a removed file simply fails to
// resolve here.
func (s *Store) Active() (*bookmark.FileSet, bool) {
	if s.active == "" {
		return nil, false
	}
	set, ok := s.files[s.active]
	if !ok {
		s.active = ""
		return nil, false
	}
	return set, true
}

// ActivePath returns the normalized path of the active file, or "".
func (s *Store) ActivePath() string {
	if _, ok := s.Active(); !ok {
		return ""
	}
	return s.active
}

// RemoveFile drops the set for path. Unknown paths are a no-op.
func (s *Store) RemoveFile(path string) {
	key, err := s.Normalize(path)
	if err != nil {
		return
	}
	if _, ok := s.files[key]; !ok {
		return
	}
	delete(s.files, key)
	if i := slices.Index(s.order, key); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	if s.active == key {
		s.active = ""
	}
}

// RemoveAllFiles drops every set.
func (s *Store) RemoveAllFiles() {
	s.files = make(map[string]*bookmark.FileSet)
	s.order = nil
	s.active = ""
}

// HasAnyBookmark reports whether any owned set holds at least one bookmark.
func (s *Store) HasAnyBookmark() bool {
	for _, set := range s.files {
		if set.HasBookmarks() {
			return true
		}
	}
	return false
}

// Paths returns the normalized paths in insertion order.
func (s *Store) Paths() []string {
	return slices.Clone(s.order)
}

// Len returns the number of registered file sets, including empty ones.
func (s *Store) Len() int {
	return len(s.files)
}
