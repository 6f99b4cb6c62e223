package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage persists documents as plain files on the local filesystem.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage creates a LocalStorage instance. The directory is created if
// it does not exist.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	baseDir = strings.TrimSpace(baseDir)
	if baseDir == "" {
		baseDir = "datas"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// Path returns the file backing the given key.
func (s *LocalStorage) Path(key string) (string, error) {
	normalized, err := normalizeKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(normalized)), nil
}

// Load reads the whole file.
func (s *LocalStorage) Load(ctx context.Context, key string) ([]byte, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	absPath, err := s.Path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notExist(key)
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

// Save overwrites the whole file in place.
func (s *LocalStorage) Save(ctx context.Context, key string, data []byte) error {
	if len(data) == 0 {
		return errors.New("empty payload")
	}
	if err := checkContext(ctx); err != nil {
		return err
	}
	absPath, err := s.Path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	if err := os.WriteFile(absPath, data, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

var _ Storage = (*LocalStorage)(nil)
