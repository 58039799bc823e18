package share

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore keeps each document as a JSON file in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based store. If baseDir is empty it defaults
// to ~/.local/share/brandqr/shares.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".local", "share", "brandqr", "shares")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create share dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) recordPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Put(ctx context.Context, doc Document, ttl time.Duration) (string, error) {
	rec := NewRecord(doc, ttl)
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshal share: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(s.recordPath(rec.ID), data, 0600); err != nil {
		return "", fmt.Errorf("write share file: %w", err)
	}
	return rec.ID, nil
}

func (s *FileStore) Get(ctx context.Context, id string) (Document, error) {
	if !ValidID(id) {
		return Document{}, ErrNotFound
	}

	s.mu.RLock()
	data, err := os.ReadFile(s.recordPath(id))
	s.mu.RUnlock()
	if os.IsNotExist(err) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("read share file: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Document{}, fmt.Errorf("parse share: %w", err)
	}
	if rec.IsExpired() {
		_ = s.Delete(ctx, id)
		return Document{}, ErrNotFound
	}
	return rec.Document, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if !ValidID(id) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.recordPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove share file: %w", err)
	}
	return nil
}

// Cleanup removes expired documents and returns how many were deleted.
func (s *FileStore) Cleanup(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return 0, fmt.Errorf("read share dir: %w", err)
	}

	n := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(s.baseDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			continue
		}
		if rec.IsExpired() && os.Remove(path) == nil {
			n++
		}
	}
	return n, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
