package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/store"
)

// File persists the snapshot as a single JSON document.
type File struct {
	path string
}

// NewFile creates a JSON file provider at path, creating parent directories.
// The file itself is only written on the first Save.
func NewFile(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("persist: resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("persist: mkdir: %w", err)
	}
	return &File{path: abs}, nil
}

// Path returns the absolute path of the snapshot file.
func (f *File) Path() string { return f.path }

// Load reads the snapshot. A missing file is an empty store, not an error.
func (f *File) Load() (store.Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return store.Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("persist: read %s: %w", f.path, err)
	}
	if len(data) == 0 {
		return store.Snapshot{}, nil
	}
	var snap store.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("persist: decode %s: %w: %w", f.path, apperr.ErrMalformedState, err)
	}
	return snap, nil
}

// Save atomically writes the snapshot: tmp file → fsync → rename.
func (f *File) Save(snap store.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("persist: encode: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".raido-tmp-*")
	if err != nil {
		return fmt.Errorf("persist: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("persist: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("persist: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("persist: close temp: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("persist: rename: %w", err)
	}
	success = true
	return nil
}

// Close is a no-op for the file backend.
func (f *File) Close() error { return nil }
