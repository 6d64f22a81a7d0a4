package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/JakeFAU/leetstats/internal/tracker"
)

// File keeps the store in a single JSON file on the local filesystem.
type File struct {
	path string
}

// NewFile creates a file-backed repository. The file and its directory are
// created on first Save.
func NewFile(path string) (*File, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("store path is required")
	}
	return &File{path: filepath.Clean(path)}, nil
}

// Path returns the store file location.
func (f *File) Path() string {
	return f.path
}

// Load reads the store. A missing file is an empty store with null metadata.
func (f *File) Load(_ context.Context) (tracker.HistoricalData, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return tracker.HistoricalData{Records: []tracker.StatRecord{}}, nil
		}
		return tracker.HistoricalData{}, fmt.Errorf("read store %s: %w", f.path, err)
	}
	data, err := Decode(raw)
	if err != nil {
		return tracker.HistoricalData{}, fmt.Errorf("%s: %w", f.path, err)
	}
	return data, nil
}

// Save overwrites the store. The document is written to a sibling temp file
// and renamed into place so readers never see a partial write.
func (f *File) Save(_ context.Context, data tracker.HistoricalData) error {
	encoded, err := Encode(data)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// No-op once the rename succeeded.
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(encoded); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	// #nosec G302 -- the store is meant to be readable by diff tooling.
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}
