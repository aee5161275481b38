package bookmark

import (
	"iter"
	"slices"

	"github.com/starford/raido/internal/apperr"
)

// FileSet is the ordered collection of bookmarks for one file.
// Invariants: at most one bookmark per line (line is the dedup key), and the
// sequence is strictly ascending by line after every mutation.
type FileSet struct {
	path  string
	marks []Bookmark
}

// NewFileSet creates an empty set for the given (already normalized) path.
func NewFileSet(path string) *FileSet {
	return &FileSet{path: path}
}

// Path returns the normalized file path this set belongs to.
func (s *FileSet) Path() string { return s.path }

// Len returns the number of bookmarks in the set.
func (s *FileSet) Len() int { return len(s.marks) }

// HasBookmarks reports whether the set holds at least one bookmark.
func (s *FileSet) HasBookmarks() bool { return len(s.marks) > 0 }

// IndexOfLine returns the index of the bookmark on the given line, or -1.
func (s *FileSet) IndexOfLine(line int) int {
	i, ok := slices.BinarySearchFunc(s.marks, line, func(b Bookmark, l int) int {
		return b.Line - l
	})
	if !ok {
		return -1
	}
	return i
}

// Add inserts a bookmark keeping the set sorted by line.
// Returns apperr.ErrDuplicateLine if a bookmark already exists on that line;
// toggle logic must remove the existing one first.
func (s *FileSet) Add(b Bookmark) error {
	if b.Line < 0 || b.Column < 0 {
		return apperr.ErrIndexOutOfRange
	}
	i, ok := slices.BinarySearchFunc(s.marks, b.Line, func(m Bookmark, l int) int {
		return m.Line - l
	})
	if ok {
		return apperr.ErrDuplicateLine
	}
	s.marks = slices.Insert(s.marks, i, b)
	return nil
}

// At returns the bookmark at index i.
func (s *FileSet) At(i int) (Bookmark, error) {
	if i < 0 || i >= len(s.marks) {
		return Bookmark{}, apperr.ErrIndexOutOfRange
	}
	return s.marks[i], nil
}

// RemoveAt removes the bookmark at index i and returns it.
func (s *FileSet) RemoveAt(i int) (Bookmark, error) {
	if i < 0 || i >= len(s.marks) {
		return Bookmark{}, apperr.ErrIndexOutOfRange
	}
	b := s.marks[i]
	s.marks = slices.Delete(s.marks, i, i+1)
	return b, nil
}

// RemoveLine removes the bookmark on the given line, if any.
func (s *FileSet) RemoveLine(line int) (Bookmark, bool) {
	i := s.IndexOfLine(line)
	if i < 0 {
		return Bookmark{}, false
	}
	b, _ := s.RemoveAt(i)
	return b, true
}

// SetLabel updates the label of the bookmark on the given line.
func (s *FileSet) SetLabel(line int, label string) error {
	i := s.IndexOfLine(line)
	if i < 0 {
		return apperr.ErrNotFound
	}
	s.marks[i].Label = label
	return nil
}

// All returns the bookmarks in ascending line order. The sequence re-reads
// current state each time it is ranged over.
func (s *FileSet) All() iter.Seq[Bookmark] {
	return func(yield func(Bookmark) bool) {
		for _, b := range s.marks {
			if !yield(b) {
				return
			}
		}
	}
}

// Marks returns a copy of the bookmarks in ascending line order.
func (s *FileSet) Marks() []Bookmark {
	return slices.Clone(s.marks)
}

// First returns the first bookmark in line order.
func (s *FileSet) First() (Bookmark, bool) {
	if len(s.marks) == 0 {
		return Bookmark{}, false
	}
	return s.marks[0], true
}

// Last returns the last bookmark in line order.
func (s *FileSet) Last() (Bookmark, bool) {
	if len(s.marks) == 0 {
		return Bookmark{}, false
	}
	return s.marks[len(s.marks)-1], true
}

// Clear empties the set and returns the bookmarks that were removed.
// The set object itself stays registered with its store.
func (s *FileSet) Clear() []Bookmark {
	removed := s.marks
	s.marks = nil
	return removed
}

// PruneBeyond removes bookmarks whose line is at or past lineCount and
// returns them. Callers run this after sticky adjustment so that bookmarks
// pushed outside the document are reported rather than silently dropped.
func (s *FileSet) PruneBeyond(lineCount int) []Bookmark {
	i := len(s.marks)
	for i > 0 && s.marks[i-1].Line >= lineCount {
		i--
	}
	if i == len(s.marks) {
		return nil
	}
	removed := slices.Clone(s.marks[i:])
	s.marks = s.marks[:i]
	return removed
}
