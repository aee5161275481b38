// Package bookmark defines the bookmark position model, the per-file ordered
// bookmark set, and the sticky adjustment algorithm that keeps bookmarks
// anchored to their line content across text edits.
package bookmark

// Bookmark marks a position in a file. Line and Column are 0-based.
// An empty Label means an unlabeled bookmark.
type Bookmark struct {
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Label  string `json:"label"`
}

// Compare orders bookmarks by line ascending, then column ascending.
func Compare(a, b Bookmark) int {
	if a.Line != b.Line {
		return a.Line - b.Line
	}
	return a.Column - b.Column
}
