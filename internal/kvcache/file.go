package kvcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/twiced-technology-gmbh/gradwatch/internal/filelock"
)

const (
	fileMode = 0o600
	dirMode  = 0o750
)

// File keeps every entry in one JSON document. Writers take an exclusive
// lock on a sidecar .lock file and replace the document atomically.
type File struct {
	path string
	lock string
}

// NewFile returns a File cache stored at path. The file is created lazily.
func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("kvcache: file backend needs a path")
	}
	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return nil, fmt.Errorf("kvcache: create cache dir: %w", err)
	}
	return &File{path: path, lock: path + ".lock"}, nil
}

// Get implements Cache.
func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	unlock, err := filelock.RLock(f.lock)
	if err != nil {
		return nil, fmt.Errorf("kvcache: lock: %w", err)
	}
	defer unlock() //nolint:errcheck // read-only critical section

	entries, err := f.read()
	if err != nil {
		return nil, err
	}
	v, ok := entries[key]
	if !ok {
		return nil, ErrMiss
	}
	return v, nil
}

// Set implements Cache.
func (f *File) Set(_ context.Context, key string, value []byte) error {
	return f.update(func(entries map[string][]byte) {
		entries[key] = value
	})
}

// Delete implements Cache.
func (f *File) Delete(_ context.Context, key string) error {
	return f.update(func(entries map[string][]byte) {
		delete(entries, key)
	})
}

// Close implements Cache.
func (f *File) Close() error { return nil }

func (f *File) update(mutate func(map[string][]byte)) error {
	return filelock.With(f.lock, func() error {
		entries, err := f.read()
		if err != nil {
			// A corrupt document is replaced wholesale.
			entries = map[string][]byte{}
		}
		mutate(entries)
		return f.write(entries)
	})
}

func (f *File) read() (map[string][]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string][]byte{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("kvcache: read %s: %w", f.path, err)
	}
	entries := map[string][]byte{}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("kvcache: decode %s: %w", f.path, err)
	}
	return entries, nil
}

func (f *File) write(entries map[string][]byte) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("kvcache: encode: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".cache-*")
	if err != nil {
		return fmt.Errorf("kvcache: temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("kvcache: write: %w", err)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("kvcache: chmod: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("kvcache: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("kvcache: replace %s: %w", f.path, err)
	}
	return nil
}
