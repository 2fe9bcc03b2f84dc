package kv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

const (
	dirPerms  = 0o750
	filePerms = 0o600
)

// File stores each key in <dir>/<key>.json. Writes replace the file
// atomically so a crash never leaves a half-written record.
type File struct {
	dir string
}

// OpenFile returns a file backend rooted at dir, creating it if needed.
func OpenFile(dir string) (*File, error) {
	if dir == "" {
		return nil, errors.New("file store: data directory is empty")
	}
	if err := os.MkdirAll(dir, dirPerms); err != nil {
		return nil, fmt.Errorf("file store: create %s: %w", dir, err)
	}
	return &File{dir: dir}, nil
}

// Dir returns the backend's directory.
func (f *File) Dir() string {
	return f.dir
}

// Path returns the file that holds key.
func (f *File) Path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *File) Get(ctx context.Context, key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(f.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("file store: read %s: %w", key, err)
	}
	return string(data), nil
}

func (f *File) Set(ctx context.Context, key, value string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	path := f.Path(key)
	if err := atomic.WriteFile(path, strings.NewReader(value)); err != nil {
		return fmt.Errorf("file store: write %s: %w", key, err)
	}
	// atomic.WriteFile keeps the temp file's mode for new files.
	if err := os.Chmod(path, filePerms); err != nil {
		return fmt.Errorf("file store: chmod %s: %w", key, err)
	}
	return nil
}

func (f *File) Close() error {
	return nil
}
