// Package navigator computes next/previous bookmark jumps within a file and
// across the files of a store. Exhaustion is an expected outcome, so it is
// reported through sentinel values, never through errors.
package navigator

import (
	"slices"

	"github.com/starford/raido/internal/bookmark"
	"github.com/starford/raido/internal/store"
)

// Direction of a navigation request.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// ParseDirection maps the wire form ("forward"/"backward") to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "forward", "":
		return Forward, true
	case "backward":
		return Backward, true
	}
	return Forward, false
}

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Sentinel is a distinguished non-error result signaling "no further
// bookmark" in some direction.
type Sentinel int

const (
	// None means a bookmark was found.
	None Sentinel = iota
	// NoBookmarksAfter: the file has bookmarks, but none after the position.
	NoBookmarksAfter
	// NoBookmarksBefore: the file has bookmarks, but none before the position.
	NoBookmarksBefore
	// NoMoreBookmarks: the file (or the whole store) has nothing to jump to.
	NoMoreBookmarks
)

func (s Sentinel) String() string {
	switch s {
	case None:
		return "ok"
	case NoBookmarksAfter:
		return "no-bookmarks-after"
	case NoBookmarksBefore:
		return "no-bookmarks-before"
	case NoMoreBookmarks:
		return "no-more-bookmarks"
	default:
		return "unknown"
	}
}

// Position is a cursor position used as the navigation origin.
type Position struct {
	Line   int
	Column int
}

// NextWithinFile finds the bookmark strictly after (Forward) or strictly
// before (Backward) the position in the set. Navigation is line-granular: the
// set holds at most one bookmark per line, and a bookmark on the cursor's own
// line is the current one, never a target.
func NextWithinFile(set *bookmark.FileSet, pos Position, dir Direction) (bookmark.Bookmark, Sentinel) {
	if set == nil || !set.HasBookmarks() {
		return bookmark.Bookmark{}, NoMoreBookmarks
	}
	if dir == Forward {
		for b := range set.All() {
			if b.Line > pos.Line {
				return b, None
			}
		}
		return bookmark.Bookmark{}, NoBookmarksAfter
	}
	var (
		found bool
		best  bookmark.Bookmark
	)
	for b := range set.All() {
		if b.Line >= pos.Line {
			break
		}
		best, found = b, true
	}
	if !found {
		return bookmark.Bookmark{}, NoBookmarksBefore
	}
	return best, None
}

// NextFileWithBookmarks walks the store's insertion order circularly starting
// just after (Forward) or before (Backward) fromPath, skipping files without
// bookmarks. It returns NoMoreBookmarks when no other file qualifies — the
// degenerate wrap back to fromPath itself does not count as a result.
func NextFileWithBookmarks(st *store.Store, fromPath string, dir Direction) (string, Sentinel) {
	paths := st.Paths()
	if len(paths) == 0 {
		return "", NoMoreBookmarks
	}

	n := len(paths)
	origin := -1
	if key, err := st.Normalize(fromPath); err == nil {
		origin = slices.Index(paths, key)
	}

	step := 1
	if dir == Backward {
		step = n - 1 // -1 mod n
	}

	// With a known origin, walk the other n-1 entries starting just past it.
	// With an unknown origin, every entry is a candidate.
	first, steps := 0, n
	if origin >= 0 {
		first, steps = (origin+step)%n, n-1
	} else if dir == Backward {
		first = n - 1
	}
	for i, k := first, 0; k < steps; i, k = (i+step)%n, k+1 {
		if set, ok := st.Lookup(paths[i]); ok && set.HasBookmarks() {
			return paths[i], None
		}
	}
	return "", NoMoreBookmarks
}

// Target is the destination of a two-level jump.
type Target struct {
	Path     string
	Bookmark bookmark.Bookmark
}

// Jump implements the two-level search: first within fromPath's set, then —
// on exhaustion — the next file with bookmarks, landing on its first
// (Forward) or last (Backward) bookmark. When no other file qualifies the
// jump wraps within the current file; NoMoreBookmarks means there was nothing
// to jump to anywhere.
func Jump(st *store.Store, fromPath string, pos Position, dir Direction) (Target, Sentinel) {
	key, err := st.Normalize(fromPath)
	if err != nil {
		key = ""
	}
	set, _ := st.Lookup(key)

	if b, s := NextWithinFile(set, pos, dir); s == None {
		return Target{Path: key, Bookmark: b}, None
	}

	if next, s := NextFileWithBookmarks(st, key, dir); s == None {
		target, _ := st.Lookup(next)
		return edgeBookmark(next, target, dir)
	}

	// No other file: wrap within the current one.
	if set != nil && set.HasBookmarks() {
		return edgeBookmark(key, set, dir)
	}
	return Target{}, NoMoreBookmarks
}

func edgeBookmark(path string, set *bookmark.FileSet, dir Direction) (Target, Sentinel) {
	var (
		b  bookmark.Bookmark
		ok bool
	)
	if dir == Forward {
		b, ok = set.First()
	} else {
		b, ok = set.Last()
	}
	if !ok {
		return Target{}, NoMoreBookmarks
	}
	return Target{Path: path, Bookmark: b}, None
}
