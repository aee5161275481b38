// Package session is the event core of Raido. Every command and editor event
// funnels through a Session: state is mutated first, persistence is scheduled
// afterwards, and bookmark loss is surfaced to the caller.
package session

import (
	"log/slog"
	"sync"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/bookmark"
	"github.com/starford/raido/internal/navigator"
	"github.com/starford/raido/internal/persist"
	"github.com/starford/raido/internal/store"
)

// EventSink receives bookmark change notifications for broadcasting.
type EventSink interface {
	PublishBookmarkEvent(kind, path string)
}

// Session serializes all bookmark operations. The mutex stands in for the
// host editor's single control thread: a text-change event fully completes
// before the next command reads bookmark state.
type Session struct {
	mu     sync.Mutex
	store  *store.Store
	logger *slog.Logger
	events EventSink
	saver  *persist.Saver
}

// Option configures a Session.
type Option func(*Session)

// WithEvents attaches a sink for bookmark change events.
func WithEvents(sink EventSink) Option {
	return func(s *Session) {
		s.events = sink
	}
}

// New creates a session over the given store.
func New(st *store.Store, logger *slog.Logger, opts ...Option) *Session {
	s := &Session{store: st, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetSaver attaches the debounced saver. The saver needs the session's
// Snapshot, so it is wired after construction.
func (s *Session) SetSaver(sv *persist.Saver) {
	s.saver = sv
}

func (s *Session) scheduleSave() {
	if s.saver != nil {
		s.saver.Schedule()
	}
}

func (s *Session) publish(kind, path string) {
	if s.events != nil {
		s.events.PublishBookmarkEvent(kind, path)
	}
}

// Toggle adds a bookmark at the position, or removes the existing one on
// that line. Returns whether a bookmark was added.
func (s *Session) Toggle(path string, line, column int, label string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.store.EnsureFile(path)
	if err != nil {
		return false, err
	}
	if _, ok := set.RemoveLine(line); ok {
		s.scheduleSave()
		s.publish("removed", set.Path())
		return false, nil
	}
	if err := set.Add(bookmark.Bookmark{Line: line, Column: column, Label: label}); err != nil {
		return false, err
	}
	s.scheduleSave()
	s.publish("added", set.Path())
	return true, nil
}

// SetLabel updates the label of the bookmark on the given line.
func (s *Session) SetLabel(path string, line int, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.store.Lookup(path)
	if !ok {
		if _, err := s.store.Normalize(path); err != nil {
			return err
		}
		return apperr.ErrNotFound
	}
	if err := set.SetLabel(line, label); err != nil {
		return err
	}
	s.scheduleSave()
	s.publish("adjusted", set.Path())
	return nil
}

// Bookmarks returns the bookmarks of one file in line order. An unknown file
// has no bookmarks; only an invalid path is an error.
func (s *Session) Bookmarks(path string) ([]bookmark.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.Normalize(path); err != nil {
		return nil, err
	}
	set, ok := s.store.Lookup(path)
	if !ok {
		return []bookmark.Bookmark{}, nil
	}
	return set.Marks(), nil
}

// FileBookmarks pairs a file with its bookmarks for listings.
type FileBookmarks struct {
	Path      string              `json:"path"`
	Bookmarks []bookmark.Bookmark `json:"bookmarks"`
}

// Files lists every file that currently has bookmarks, in the store's
// insertion order.
func (s *Session) Files() []FileBookmarks {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []FileBookmarks
	for _, p := range s.store.Paths() {
		set, ok := s.store.Lookup(p)
		if !ok || !set.HasBookmarks() {
			continue
		}
		out = append(out, FileBookmarks{Path: p, Bookmarks: set.Marks()})
	}
	return out
}

// ClearFile removes every bookmark in one file. The set stays registered so
// the file keeps its place in cross-file navigation order.
func (s *Session) ClearFile(path string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.Normalize(path); err != nil {
		return 0, err
	}
	set, ok := s.store.Lookup(path)
	if !ok {
		return 0, nil
	}
	removed := set.Clear()
	if len(removed) > 0 {
		s.scheduleSave()
		s.publish("cleared", set.Path())
	}
	return len(removed), nil
}

// ClearAll removes every bookmark in every file.
func (s *Session) ClearAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, p := range s.store.Paths() {
		if set, ok := s.store.Lookup(p); ok {
			total += len(set.Clear())
		}
	}
	s.store.RemoveAllFiles()
	if total > 0 {
		s.scheduleSave()
		s.publish("cleared", "")
	}
	return total
}

// ActiveEditorChanged registers the newly focused file and re-resolves the
// active pointer to it.
func (s *Session) ActiveEditorChanged(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.EnsureFile(path); err != nil {
		return err
	}
	s.store.SetActive(path)
	return nil
}

// ActivePath returns the normalized path of the focused file, or "".
func (s *Session) ActivePath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ActivePath()
}

// ApplyChange runs sticky adjustment for one text-change event and returns
// every bookmark that was lost, both anchors deleted by the edit and
// bookmarks pushed past the new end of the document.
func (s *Session) ApplyChange(path string, ev bookmark.ChangeEvent) ([]bookmark.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.Normalize(path); err != nil {
		return nil, err
	}
	set, ok := s.store.Lookup(path)
	if !ok || !set.HasBookmarks() {
		return nil, nil
	}

	removed := bookmark.Apply(set, ev)
	if ev.NewLineCount > 0 {
		removed = append(removed, set.PruneBeyond(ev.NewLineCount)...)
	}

	if len(removed) > 0 {
		for _, b := range removed {
			s.logger.Info("bookmark lost to edit",
				slog.String("path", set.Path()),
				slog.Int("line", b.Line),
				slog.String("label", b.Label))
		}
		s.publish("removed", set.Path())
	} else {
		s.publish("adjusted", set.Path())
	}
	s.scheduleSave()
	return removed, nil
}

// Navigate performs the two-level next/previous jump from a position.
func (s *Session) Navigate(path string, line, column int, dir navigator.Direction) (navigator.Target, navigator.Sentinel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return navigator.Jump(s.store, path, navigator.Position{Line: line, Column: column}, dir)
}

// HasAnyBookmark reports whether any file has at least one bookmark.
func (s *Session) HasAnyBookmark() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.HasAnyBookmark()
}

// Snapshot serializes current state for persistence. Safe to call from the
// saver's goroutine.
func (s *Session) Snapshot() store.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Serialize()
}
