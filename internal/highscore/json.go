package highscore

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

// JSONStore keeps the leaderboard in a JSON file holding an array of
// {"name": ..., "score": ...} objects.
type JSONStore struct {
	mu   sync.Mutex
	path string
}

// NewJSONStore returns a store for path. The file is created on first write.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Top returns up to n entries, highest first. A missing file is an empty board.
func (s *JSONStore) Top(_ context.Context, n int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return nil, err
	}
	if n < len(entries) {
		entries = entries[:n]
	}
	return entries, nil
}

// Add inserts e and rewrites the file atomically.
func (s *JSONStore) Add(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	return s.write(Insert(entries, e))
}

// Close is a no-op; the file is not held open.
func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) read() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return Sort(entries), nil
}

func (s *JSONStore) write(entries []Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode high scores: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".highscores-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}
