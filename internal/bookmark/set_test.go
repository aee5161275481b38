package bookmark

import (
	"errors"
	"testing"

	"github.com/starford/raido/internal/apperr"
)

func TestAddAndIndexOfLine(t *testing.T) {
	s := NewFileSet("/tmp/a.go")
	cases := []Bookmark{
		{Line: 9, Column: 1},
		{Line: 2, Column: 0, Label: "start"},
		{Line: 5, Column: 3},
	}
	for _, b := range cases {
		if err := s.Add(b); err != nil {
			t.Fatalf("Add(%v): %v", b, err)
		}
	}
	for _, b := range cases {
		i := s.IndexOfLine(b.Line)
		if i < 0 {
			t.Fatalf("IndexOfLine(%d) = -1", b.Line)
		}
		got, err := s.At(i)
		if err != nil {
			t.Fatalf("At(%d): %v", i, err)
		}
		if got != b {
			t.Errorf("At(%d) = %v, want %v", i, got, b)
		}
	}
	if i := s.IndexOfLine(7); i != -1 {
		t.Errorf("IndexOfLine(7) = %d, want -1", i)
	}
}

func TestAddDuplicateLine(t *testing.T) {
	s := NewFileSet("/tmp/a.go")
	if err := s.Add(Bookmark{Line: 4}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	err := s.Add(Bookmark{Line: 4, Column: 9, Label: "other"})
	if !errors.Is(err, apperr.ErrDuplicateLine) {
		t.Errorf("err = %v, want ErrDuplicateLine", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestAddRejectsNegativePositions(t *testing.T) {
	s := NewFileSet("/tmp/a.go")
	for _, b := range []Bookmark{{Line: -1}, {Line: 0, Column: -2}} {
		if err := s.Add(b); !errors.Is(err, apperr.ErrIndexOutOfRange) {
			t.Errorf("Add(%v) err = %v, want ErrIndexOutOfRange", b, err)
		}
	}
}

func TestSortInvariant(t *testing.T) {
	s := NewFileSet("/tmp/a.go")
	for _, line := range []int{10, 3, 7, 0, 5} {
		if err := s.Add(Bookmark{Line: line}); err != nil {
			t.Fatalf("Add(%d): %v", line, err)
		}
	}
	if _, err := s.RemoveAt(2); err != nil {
		t.Fatalf("RemoveAt: %v", err)
	}
	prev := -1
	for b := range s.All() {
		if b.Line <= prev {
			t.Fatalf("sequence not strictly ascending: %d after %d", b.Line, prev)
		}
		prev = b.Line
	}
}

func TestRemoveAtOutOfRange(t *testing.T) {
	s := NewFileSet("/tmp/a.go")
	_ = s.Add(Bookmark{Line: 1})
	for _, i := range []int{-1, 1, 99} {
		if _, err := s.RemoveAt(i); !errors.Is(err, apperr.ErrIndexOutOfRange) {
			t.Errorf("RemoveAt(%d) err = %v, want ErrIndexOutOfRange", i, err)
		}
	}
}

func TestRemoveLine(t *testing.T) {
	s := NewFileSet("/tmp/a.go")
	_ = s.Add(Bookmark{Line: 3, Label: "x"})
	b, ok := s.RemoveLine(3)
	if !ok || b.Label != "x" {
		t.Fatalf("RemoveLine(3) = %v, %v", b, ok)
	}
	if _, ok := s.RemoveLine(3); ok {
		t.Error("second RemoveLine(3) should report absence")
	}
}

func TestSetLabel(t *testing.T) {
	s := NewFileSet("/tmp/a.go")
	_ = s.Add(Bookmark{Line: 6})
	if err := s.SetLabel(6, "todo"); err != nil {
		t.Fatalf("SetLabel: %v", err)
	}
	i := s.IndexOfLine(6)
	if b, _ := s.At(i); b.Label != "todo" {
		t.Errorf("label = %q, want todo", b.Label)
	}
	if err := s.SetLabel(7, "x"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("SetLabel on empty line err = %v, want ErrNotFound", err)
	}
}

func TestAllIsRestartable(t *testing.T) {
	s := NewFileSet("/tmp/a.go")
	_ = s.Add(Bookmark{Line: 1})
	_ = s.Add(Bookmark{Line: 2})

	seq := s.All()
	first := 0
	for range seq {
		first++
	}
	_ = s.Add(Bookmark{Line: 3})
	second := 0
	for range seq {
		second++
	}
	if first != 2 || second != 3 {
		t.Errorf("counts = %d, %d, want 2, 3", first, second)
	}
}

func TestClearKeepsSetUsable(t *testing.T) {
	s := NewFileSet("/tmp/a.go")
	_ = s.Add(Bookmark{Line: 1})
	_ = s.Add(Bookmark{Line: 4})
	removed := s.Clear()
	if len(removed) != 2 {
		t.Fatalf("Clear removed %d, want 2", len(removed))
	}
	if s.HasBookmarks() {
		t.Error("set should be empty after Clear")
	}
	if err := s.Add(Bookmark{Line: 1}); err != nil {
		t.Errorf("Add after Clear: %v", err)
	}
}

func TestPruneBeyond(t *testing.T) {
	s := NewFileSet("/tmp/a.go")
	for _, line := range []int{2, 8, 15, 20} {
		_ = s.Add(Bookmark{Line: line})
	}
	removed := s.PruneBeyond(10)
	if len(removed) != 2 {
		t.Fatalf("removed %d, want 2", len(removed))
	}
	if removed[0].Line != 15 || removed[1].Line != 20 {
		t.Errorf("removed = %v", removed)
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
	if got := s.PruneBeyond(10); got != nil {
		t.Errorf("second prune removed %v, want none", got)
	}
}
