package bookmark

import (
	"slices"
	"testing"
)

func setWithLines(t *testing.T, lines ...int) *FileSet {
	t.Helper()
	s := NewFileSet("/tmp/a.go")
	for _, l := range lines {
		if err := s.Add(Bookmark{Line: l}); err != nil {
			t.Fatalf("Add(%d): %v", l, err)
		}
	}
	return s
}

func lines(s *FileSet) []int {
	var out []int
	for b := range s.All() {
		out = append(out, b.Line)
	}
	return out
}

func TestInsertLinesAboveShiftsDown(t *testing.T) {
	s := setWithLines(t, 10)
	// Three blank lines inserted at the top of the file.
	removed := Apply(s, ChangeEvent{
		Edits:        []Edit{{StartLine: 0, EndLine: 0, NewText: "\n\n\n"}},
		OldLineCount: 20,
		NewLineCount: 23,
	})
	if len(removed) != 0 {
		t.Fatalf("removed = %v, want none", removed)
	}
	if got := lines(s); !slices.Equal(got, []int{13}) {
		t.Errorf("lines = %v, want [13]", got)
	}
}

func TestDeleteBelowLeavesUnchanged(t *testing.T) {
	s := setWithLines(t, 2)
	removed := Apply(s, ChangeEvent{
		Edits:        []Edit{{StartLine: 5, EndLine: 8, NewText: ""}},
		OldLineCount: 20,
		NewLineCount: 17,
	})
	if len(removed) != 0 {
		t.Fatalf("removed = %v, want none", removed)
	}
	if got := lines(s); !slices.Equal(got, []int{2}) {
		t.Errorf("lines = %v, want [2]", got)
	}
}

func TestDeleteRangeRemovesAnchoredAndShiftsRest(t *testing.T) {
	// Deleting lines 3-4 entirely: range (3,0) up to (5,0).
	s := setWithLines(t, 1, 3, 6)
	removed := Apply(s, ChangeEvent{
		Edits:        []Edit{{StartLine: 3, EndLine: 5, NewText: ""}},
		OldLineCount: 10,
		NewLineCount: 8,
	})
	if len(removed) != 1 || removed[0].Line != 3 {
		t.Fatalf("removed = %v, want bookmark at line 3", removed)
	}
	if got := lines(s); !slices.Equal(got, []int{1, 4}) {
		t.Errorf("lines = %v, want [1 4]", got)
	}
}

func TestDeleteOwnLineReportsRemoval(t *testing.T) {
	s := setWithLines(t, 5)
	removed := Apply(s, ChangeEvent{
		Edits:        []Edit{{StartLine: 5, EndLine: 6, NewText: ""}},
		OldLineCount: 10,
		NewLineCount: 9,
	})
	if len(removed) != 1 || removed[0].Line != 5 {
		t.Fatalf("removed = %v, want bookmark at line 5", removed)
	}
	if s.HasBookmarks() {
		t.Errorf("lines = %v, want empty", lines(s))
	}
}

// Column heuristic: text inserted at or before the bookmark's column shifts
// the column by the inserted length; insertions after it leave it alone.
func TestSameLineInsertionColumnShift(t *testing.T) {
	s := NewFileSet("/tmp/a.go")
	_ = s.Add(Bookmark{Line: 4, Column: 6})

	// Insert "xx" at column 2, before the bookmark's column.
	removed := Apply(s, ChangeEvent{
		Edits:        []Edit{{StartLine: 4, StartColumn: 2, EndLine: 4, EndColumn: 2, NewText: "xx"}},
		OldLineCount: 10,
		NewLineCount: 10,
	})
	if len(removed) != 0 {
		t.Fatalf("removed = %v", removed)
	}
	b, _ := s.At(0)
	if b.Line != 4 || b.Column != 8 {
		t.Errorf("bookmark = %v, want line 4 column 8", b)
	}

	// Insert after the bookmark's column: no change.
	Apply(s, ChangeEvent{
		Edits:        []Edit{{StartLine: 4, StartColumn: 9, EndLine: 4, EndColumn: 9, NewText: "yy"}},
		OldLineCount: 10,
		NewLineCount: 10,
	})
	b, _ = s.At(0)
	if b.Column != 8 {
		t.Errorf("column = %d, want 8", b.Column)
	}
}

func TestNewlineInsertedBeforeColumnMovesBookmarkDown(t *testing.T) {
	s := NewFileSet("/tmp/a.go")
	_ = s.Add(Bookmark{Line: 4, Column: 5})

	// Split line 4 at column 2.
	Apply(s, ChangeEvent{
		Edits:        []Edit{{StartLine: 4, StartColumn: 2, EndLine: 4, EndColumn: 2, NewText: "\n"}},
		OldLineCount: 10,
		NewLineCount: 11,
	})
	b, _ := s.At(0)
	if b.Line != 5 || b.Column != 3 {
		t.Errorf("bookmark = %v, want line 5 column 3", b)
	}
}

func TestMultiLineDeletionMergesTailLine(t *testing.T) {
	s := NewFileSet("/tmp/a.go")
	_ = s.Add(Bookmark{Line: 5, Column: 4})

	// Delete from (3,2) to (5,1): line 5's tail merges onto line 3.
	removed := Apply(s, ChangeEvent{
		Edits:        []Edit{{StartLine: 3, StartColumn: 2, EndLine: 5, EndColumn: 1, NewText: ""}},
		OldLineCount: 10,
		NewLineCount: 8,
	})
	if len(removed) != 0 {
		t.Fatalf("removed = %v", removed)
	}
	b, _ := s.At(0)
	if b.Line != 3 || b.Column != 5 {
		t.Errorf("bookmark = %v, want line 3 column 5", b)
	}
}

func TestMergeCollisionKeepsFirstBookmark(t *testing.T) {
	s := NewFileSet("/tmp/a.go")
	_ = s.Add(Bookmark{Line: 3, Column: 0, Label: "keep"})
	_ = s.Add(Bookmark{Line: 5, Column: 4, Label: "merged"})

	// Deletion starts after line 3's bookmark column, so the line-3 bookmark
	// survives and the merged line-5 bookmark collides with it.
	removed := Apply(s, ChangeEvent{
		Edits:        []Edit{{StartLine: 3, StartColumn: 2, EndLine: 5, EndColumn: 1, NewText: ""}},
		OldLineCount: 10,
		NewLineCount: 8,
	})
	if len(removed) != 1 || removed[0].Label != "merged" {
		t.Fatalf("removed = %v, want the merged bookmark", removed)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
	b, _ := s.At(0)
	if b.Label != "keep" || b.Line != 3 {
		t.Errorf("bookmark = %v", b)
	}
}

func TestMultipleEditsComposeInDocumentOrder(t *testing.T) {
	s := setWithLines(t, 2, 8)
	// Two insertions in one event, both in original coordinates: one blank
	// line at the top, one after original line 5.
	removed := Apply(s, ChangeEvent{
		Edits: []Edit{
			{StartLine: 5, EndLine: 5, NewText: "\n"},
			{StartLine: 0, EndLine: 0, NewText: "\n"},
		},
		OldLineCount: 10,
		NewLineCount: 12,
	})
	if len(removed) != 0 {
		t.Fatalf("removed = %v", removed)
	}
	if got := lines(s); !slices.Equal(got, []int{3, 10}) {
		t.Errorf("lines = %v, want [3 10]", got)
	}
}

func TestWholeDocumentClearedDropsAllBookmarks(t *testing.T) {
	s := setWithLines(t, 0, 4, 9)
	removed := Apply(s, ChangeEvent{
		Edits:        []Edit{{StartLine: 0, StartColumn: 0, EndLine: 9, EndColumn: 7, NewText: ""}},
		OldLineCount: 10,
		NewLineCount: 1,
	})
	if len(removed) != 3 {
		t.Fatalf("removed %d bookmarks, want 3", len(removed))
	}
	if s.HasBookmarks() {
		t.Error("set should be empty")
	}
}

func TestApplyNeverFailsOnOutOfRangeEdits(t *testing.T) {
	s := setWithLines(t, 3)
	// Edit past the end of the document: nothing to adjust, nothing removed.
	removed := Apply(s, ChangeEvent{
		Edits:        []Edit{{StartLine: 50, EndLine: 52, NewText: ""}},
		OldLineCount: 10,
		NewLineCount: 8,
	})
	if len(removed) != 0 {
		t.Fatalf("removed = %v", removed)
	}
	if got := lines(s); !slices.Equal(got, []int{3}) {
		t.Errorf("lines = %v, want [3]", got)
	}
}

func TestReplacementKeepingLineCountAdjustsColumnOnly(t *testing.T) {
	s := NewFileSet("/tmp/a.go")
	_ = s.Add(Bookmark{Line: 2, Column: 8})

	// Replace columns 1-3 on line 2 with a longer token.
	Apply(s, ChangeEvent{
		Edits:        []Edit{{StartLine: 2, StartColumn: 1, EndLine: 2, EndColumn: 3, NewText: "abcd"}},
		OldLineCount: 5,
		NewLineCount: 5,
	})
	b, _ := s.At(0)
	if b.Line != 2 || b.Column != 10 {
		t.Errorf("bookmark = %v, want line 2 column 10", b)
	}
}
