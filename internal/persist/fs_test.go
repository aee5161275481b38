package persist

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/store"
)

func tempFileProvider(t *testing.T) *File {
	t.Helper()
	f, err := NewFile(filepath.Join(t.TempDir(), "bookmarks.json"))
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	return f
}

func sampleSnapshot() store.Snapshot {
	return store.Snapshot{
		"/src/a.go": {
			{Line: 2, Column: 1, Label: "start"},
			{Line: 9},
		},
		"/src/b.go": {
			{Line: 0, Column: 4},
		},
	}
}

func TestFileSaveLoadRoundTrip(t *testing.T) {
	f := tempFileProvider(t)
	want := sampleSnapshot()
	if err := f.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := f.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestFileLoadMissingIsEmpty(t *testing.T) {
	f := tempFileProvider(t)
	snap, err := f.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snap) != 0 {
		t.Errorf("snapshot = %v, want empty", snap)
	}
}

func TestFileLoadMalformed(t *testing.T) {
	f := tempFileProvider(t)
	if err := os.WriteFile(f.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := f.Load()
	if !errors.Is(err, apperr.ErrMalformedState) {
		t.Errorf("err = %v, want ErrMalformedState", err)
	}
}

func TestFileLoadMissingLabelDefaultsEmpty(t *testing.T) {
	f := tempFileProvider(t)
	raw := `{"/src/a.go": [{"line": 3, "column": 0}]}`
	if err := os.WriteFile(f.Path(), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	snap, err := f.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	entries := snap["/src/a.go"]
	if len(entries) != 1 || entries[0].Label != "" {
		t.Errorf("entries = %v, want one entry with empty label", entries)
	}
}

func TestFileSaveIsAtomic(t *testing.T) {
	f := tempFileProvider(t)
	if err := f.Save(sampleSnapshot()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := f.Save(store.Snapshot{}); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(f.Path()), ".raido-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestNewFileCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "bookmarks.json")
	f, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if err := f.Save(store.Snapshot{}); err != nil {
		t.Errorf("Save into created dir: %v", err)
	}
}
