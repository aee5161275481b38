package bookmark

import (
	"slices"
	"strings"
)

// Edit describes one replaced range of a document. The range is expressed in
// the coordinates of the document before the change, half-open: it starts at
// (StartLine, StartColumn) and ends just before (EndLine, EndColumn). The
// removed text is replaced by NewText. A pure insertion has a zero-width
// range; a pure deletion has empty NewText.
type Edit struct {
	StartLine   int    `json:"startLine"`
	StartColumn int    `json:"startColumn"`
	EndLine     int    `json:"endLine"`
	EndColumn   int    `json:"endColumn"`
	NewText     string `json:"newText"`
}

// insertedLines returns the number of line breaks NewText introduces.
func (e Edit) insertedLines() int {
	return strings.Count(e.NewText, "\n")
}

// lastLineLen returns the length of NewText after its final line break.
func (e Edit) lastLineLen() int {
	if i := strings.LastIndexByte(e.NewText, '\n'); i >= 0 {
		return len(e.NewText) - i - 1
	}
	return len(e.NewText)
}

// lineDelta returns the net change in document line count caused by the edit.
func (e Edit) lineDelta() int {
	return e.insertedLines() - (e.EndLine - e.StartLine)
}

// ChangeEvent describes one text-change notification from the host editor.
// Edits may arrive in any order; they all reference the coordinates of the
// document as it was before the event.
type ChangeEvent struct {
	Edits        []Edit `json:"edits"`
	OldLineCount int    `json:"oldLineCount"`
	NewLineCount int    `json:"newLineCount"`
}

// clearsDocument reports the whole-file special case: a single edit that
// deletes the entire content down to one empty line.
func (ev ChangeEvent) clearsDocument() bool {
	if ev.NewLineCount > 1 || len(ev.Edits) != 1 {
		return false
	}
	e := ev.Edits[0]
	return e.NewText == "" && e.StartLine == 0 && e.StartColumn == 0 &&
		e.EndLine >= ev.OldLineCount-1
}

// Apply recomputes every bookmark position in s against the change event so
// bookmarks stick to their original line content, and returns the bookmarks
// whose anchor text was deleted. It never fails on out-of-range input; loss
// is reported through the returned list. Bookmarks that end up at or past
// the new line count stay in the set; callers sweep them with PruneBeyond so
// the loss can be reported at the display layer.
func Apply(s *FileSet, ev ChangeEvent) []Bookmark {
	if !s.HasBookmarks() {
		return nil
	}
	if ev.clearsDocument() {
		return s.Clear()
	}

	edits := slices.Clone(ev.Edits)
	slices.SortFunc(edits, func(a, b Edit) int {
		if a.StartLine != b.StartLine {
			return a.StartLine - b.StartLine
		}
		return a.StartColumn - b.StartColumn
	})

	var removed []Bookmark
	// Edits reference original coordinates. Applying them in document order
	// and shifting each subsequent edit by the accumulated line delta keeps
	// every step consistent with the document state as of that step.
	shift := 0
	for _, e := range edits {
		e.StartLine += shift
		e.EndLine += shift
		var dropped []Bookmark
		s.marks, dropped = applyEdit(s.marks, e)
		removed = append(removed, dropped...)
		shift += e.lineDelta()
	}
	return removed
}

// applyEdit maps every bookmark across one edit. The returned kept slice is
// sorted and holds at most one bookmark per line; bookmarks whose anchor was
// removed, plus any that collapsed onto an already-bookmarked line, come back
// in dropped.
func applyEdit(marks []Bookmark, e Edit) (kept, dropped []Bookmark) {
	kept = marks[:0]
	for _, b := range marks {
		nb, ok := mapMark(b, e)
		if !ok {
			dropped = append(dropped, b)
			continue
		}
		// Collapsing edits can land two bookmarks on one line; the first wins.
		if n := len(kept); n > 0 && kept[n-1].Line == nb.Line {
			dropped = append(dropped, b)
			continue
		}
		kept = append(kept, nb)
	}
	return kept, dropped
}

// mapMark repositions a single bookmark across one edit. ok is false when the
// bookmark's anchor text was deleted.
//
// Column handling on the edited line is best effort, not an exact
// cursor-tracking contract: text inserted at or before the bookmark's column
// shifts the column by the inserted length, and a bookmark inside a replaced
// same-line span snaps to the end of the replacement.
func mapMark(b Bookmark, e Edit) (Bookmark, bool) {
	switch {
	case b.Line < e.StartLine:
		return b, true

	case b.Line > e.EndLine:
		b.Line += e.lineDelta()
		return b, true
	}

	ins := e.insertedLines()
	last := e.lastLineLen()

	// Column of the edit's end position after the replacement text lands.
	endCol := last
	if ins == 0 {
		endCol = e.StartColumn + last
	}

	if e.StartLine == e.EndLine {
		// Single-line edit on the bookmark's own line.
		if b.Column < e.StartColumn {
			return b, true
		}
		b.Line = e.StartLine + ins
		if b.Column < e.EndColumn {
			b.Column = endCol
		} else {
			b.Column += endCol - e.EndColumn
		}
		return b, true
	}

	// Multi-line edit touching the bookmark's line.
	switch {
	case b.Line == e.StartLine:
		if b.Column < e.StartColumn {
			return b, true
		}
		return Bookmark{}, false

	case b.Line == e.EndLine:
		if b.Column < e.EndColumn {
			return Bookmark{}, false
		}
		b.Line = e.StartLine + ins
		b.Column += endCol - e.EndColumn
		return b, true

	default:
		// Strictly inside the removed range.
		return Bookmark{}, false
	}
}
