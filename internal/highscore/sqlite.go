package highscore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the leaderboard in a SQLite database so several server
// processes (ssh host, web page) can share it.
type SQLiteStore struct {
	conn *sql.DB
}

// OpenSQLite opens (or creates) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	// WAL lets the web server read while a game writes.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	s := &SQLiteStore{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS high_scores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		score INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_high_scores_score ON high_scores(score DESC, id ASC);
	`
	if _, err := s.conn.Exec(schema); err != nil {
		return fmt.Errorf("migrate high scores: %w", err)
	}
	return nil
}

// Top returns up to n entries, highest first; ties go to the earlier run.
func (s *SQLiteStore) Top(ctx context.Context, n int) ([]Entry, error) {
	rows, err := s.conn.QueryContext(ctx,
		"SELECT name, score FROM high_scores ORDER BY score DESC, id ASC LIMIT ?", n)
	if err != nil {
		return nil, fmt.Errorf("query high scores: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Score); err != nil {
			return nil, fmt.Errorf("scan high score: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Add inserts e and prunes everything below the leaderboard cut.
func (s *SQLiteStore) Add(ctx context.Context, e Entry) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO high_scores (name, score) VALUES (?, ?)",
		strings.TrimSpace(e.Name), e.Score,
	); err != nil {
		return fmt.Errorf("insert high score: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM high_scores WHERE id NOT IN (
			SELECT id FROM high_scores ORDER BY score DESC, id ASC LIMIT ?
		)`, MaxEntries,
	); err != nil {
		return fmt.Errorf("prune high scores: %w", err)
	}
	return tx.Commit()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

// Open picks a store for path: a .json extension selects JSONStore,
// anything else SQLite.
func Open(path string) (Store, error) {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return NewJSONStore(path), nil
	}
	return OpenSQLite(path)
}

// OpenBoard opens the store at path and loads its leaderboard. The store is
// closed again when loading fails.
func OpenBoard(ctx context.Context, path string) (*Board, error) {
	store, err := Open(path)
	if err != nil {
		return nil, err
	}
	board, err := NewBoard(ctx, store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return board, nil
}
