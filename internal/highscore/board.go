package highscore

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// Store persists leaderboard entries.
type Store interface {
	// Top returns up to n entries, highest score first.
	Top(ctx context.Context, n int) ([]Entry, error)
	// Add records a run. Stores keep at most MaxEntries rows.
	Add(ctx context.Context, e Entry) error
	Close() error
}

// storeTimeout bounds a single store call made from the game loop.
const storeTimeout = 2 * time.Second

// Board is an in-memory leaderboard kept in sync with a Store. It is safe
// for concurrent use by several game sessions.
type Board struct {
	mu      sync.RWMutex
	store   Store
	entries []Entry
}

// NewBoard loads the leaderboard from store, seeding it with Defaults when
// the store is empty. A nil store keeps the board in memory only.
func NewBoard(ctx context.Context, store Store) (*Board, error) {
	b := &Board{store: store}
	if store == nil {
		b.entries = Defaults()
		return b, nil
	}

	entries, err := store.Top(ctx, MaxEntries)
	if err != nil {
		return nil, fmt.Errorf("load high scores: %w", err)
	}
	if len(entries) == 0 {
		for _, e := range Defaults() {
			if err := store.Add(ctx, e); err != nil {
				return nil, fmt.Errorf("seed high scores: %w", err)
			}
			entries = Insert(entries, e)
		}
	}
	b.entries = Sort(entries)
	return b, nil
}

// Record adds a completed run. The in-memory board is updated even when the
// store write fails; the error is returned for the caller to log.
func (b *Board) Record(e Entry) error {
	e.Name = NormalizeName(e.Name)
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}

	b.mu.Lock()
	b.entries = Insert(b.entries, e)
	b.mu.Unlock()

	if b.store == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := b.store.Add(ctx, e); err != nil {
		return fmt.Errorf("save high score: %w", err)
	}
	return nil
}

// Top returns a copy of the first n entries.
func (b *Board) Top(n int) []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n = min(max(n, 0), len(b.entries))
	return slices.Clone(b.entries[:n])
}

// Qualifies reports whether score would make the leaderboard.
func (b *Board) Qualifies(score int) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Qualifies(b.entries, score)
}

// Reload refreshes the board from the store, picking up runs recorded by
// other processes sharing it.
func (b *Board) Reload(ctx context.Context) error {
	if b.store == nil {
		return nil
	}
	entries, err := b.store.Top(ctx, MaxEntries)
	if err != nil {
		return fmt.Errorf("reload high scores: %w", err)
	}
	b.mu.Lock()
	b.entries = Sort(entries)
	b.mu.Unlock()
	return nil
}

// Close releases the underlying store.
func (b *Board) Close() error {
	if b.store == nil {
		return nil
	}
	return b.store.Close()
}
