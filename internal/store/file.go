package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// File keeps every key in a single JSON object on disk, the same shape the
// browser's local storage has. MaxBytes limits the summed size of keys and
// values; zero means unlimited.
type File struct {
	path     string
	maxBytes int

	mu sync.Mutex
}

func NewFile(path string, maxBytes int) *File {
	return &File{path: path, maxBytes: maxBytes}
}

func (f *File) Get(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.read()
	if err != nil {
		return nil, false, err
	}

	v, ok := items[key]
	if !ok {
		return nil, false, nil
	}

	return []byte(v), true, nil
}

func (f *File) Set(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.read()
	if err != nil {
		return err
	}

	items[key] = string(value)

	if f.maxBytes > 0 {
		if size := usage(items); size > f.maxBytes {
			return fmt.Errorf("%w: %d bytes used, limit is %d", ErrQuotaExceeded, size, f.maxBytes)
		}
	}

	return f.write(items)
}

func (f *File) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.read()
	if err != nil {
		return err
	}

	if _, ok := items[key]; !ok {
		return nil
	}

	delete(items, key)
	return f.write(items)
}

func (f *File) Close() error { return nil }

func (f *File) read() (map[string]string, error) {
	items := make(map[string]string)

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return items, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store file %q: %w", f.path, err)
	}

	if len(data) == 0 {
		return items, nil
	}

	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode store file %q: %w", f.path, err)
	}

	return items, nil
}

// write replaces the file atomically so a failed write never leaves a torn store.
func (f *File) write(items map[string]string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store dir %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".store-*.json")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		tmp.Close()
		return fmt.Errorf("encode store file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp store file: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace store file %q: %w", f.path, err)
	}

	return nil
}

func usage(items map[string]string) int {
	total := 0
	for k, v := range items {
		total += len(k) + len(v)
	}
	return total
}
