package api

import (
	"github.com/starford/raido/internal/bookmark"
	"github.com/starford/raido/internal/session"
)

// ToggleRequest is the request body for toggling a bookmark at a position.
type ToggleRequest struct {
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Label  string `json:"label"`
}

// ToggleResponse reports the toggle outcome and the file's bookmarks after it.
type ToggleResponse struct {
	Added     bool                `json:"added"`
	Bookmarks []bookmark.Bookmark `json:"bookmarks"`
}

// LabelRequest is the request body for relabeling an existing bookmark.
type LabelRequest struct {
	Line  int    `json:"line"`
	Label string `json:"label"`
}

// ChangeResponse carries the bookmarks lost to a text-change event so the
// host can report them.
type ChangeResponse struct {
	Removed []bookmark.Bookmark `json:"removed"`
}

// ClearResponse reports how many bookmarks a clear operation removed.
type ClearResponse struct {
	Removed int `json:"removed"`
}

// ActiveRequest is the request body for the active-editor-changed event.
type ActiveRequest struct {
	Path string `json:"path"`
}

// NavigateRequest asks for the next/previous bookmark from a position.
type NavigateRequest struct {
	Path      string `json:"path"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	Direction string `json:"direction"` // "forward" (default) or "backward"
}

// NavigateResponse is the jump outcome. Outcome is "ok" when Path/Bookmark
// are set, otherwise a sentinel name ("no-more-bookmarks", ...): exhaustion
// is an expected result, never an error status.
type NavigateResponse struct {
	Outcome  string             `json:"outcome"`
	Path     string             `json:"path,omitempty"`
	Bookmark *bookmark.Bookmark `json:"bookmark,omitempty"`
}

// FileBookmarks is one file's listing entry (aliased from the session layer).
type FileBookmarks = session.FileBookmarks

// FilesResponse wraps the all-files listing.
type FilesResponse struct {
	Files []FileBookmarks `json:"files"`
	Total int             `json:"total"`
}
