package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/domain"
)

// File stores the record as a JSON document readable only by the owner.
type File struct {
	key  string
	path string
	mu   sync.Mutex
}

// NewFile creates a file-backed store at path. The parent directory is
// created on first save.
func NewFile(path, key string) *File {
	return &File{key: key, path: path}
}

func (f *File) Load(_ context.Context) (*domain.PersistedSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sessionstore: read %s: %w", f.path, err)
	}
	return Decode(f.key, raw)
}

// Save writes to a temp file and renames it so a crash never leaves a
// truncated record behind.
func (f *File) Save(_ context.Context, rec *domain.PersistedSession) error {
	raw, err := Encode(f.key, rec)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("sessionstore: mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".rtcc-session-*")
	if err != nil {
		return fmt.Errorf("sessionstore: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("sessionstore: write temp: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("sessionstore: chmod temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("sessionstore: close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("sessionstore: rename: %w", err)
	}
	return nil
}

func (f *File) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("sessionstore: remove %s: %w", f.path, err)
	}
	return nil
}

func (f *File) Close() error { return nil }
