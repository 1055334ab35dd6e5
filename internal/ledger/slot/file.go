package slot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// File keeps each slot in its own JSON file inside a directory.
type File struct {
	dir string
}

func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	return &File{dir: dir}, nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, filepath.Base(key)+".json")
}

func (f *File) Load(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", key, err)
	}

	return data, true, nil
}

// Save writes to a temporary file and renames it over the slot, so a crash
// mid-write leaves the previous contents intact.
func (f *File) Save(_ context.Context, key string, data []byte) error {
	path := f.path(key)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing temp file for %s: %w", key, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing %s: %w", key, err)
	}

	return nil
}
