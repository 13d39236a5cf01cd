// Package history persists the navigation log of a browsing context in a
// local SQLite database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// Visit is one recorded navigation.
type Visit struct {
	ID        int64
	URL       string
	Status    int
	BodyBytes int64
	VisitedAt time.Time
}

// Store is a SQLite-backed visit log.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS visits (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	url        TEXT NOT NULL,
	status     INTEGER NOT NULL,
	body_bytes INTEGER NOT NULL DEFAULT 0,
	visited_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_visits_url ON visits(url);
CREATE INDEX IF NOT EXISTS idx_visits_visited_at ON visits(visited_at);
`

// Open creates or opens the history database under dataDir. If dataDir is
// empty it defaults to ~/.vulpes.
func Open(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".vulpes")
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "history.db")

	// WAL mode for better concurrency between contexts sharing a history file
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db, path: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Record appends a visit and returns its id.
func (s *Store) Record(ctx context.Context, url string, status int, bodyBytes int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO visits (url, status, body_bytes, visited_at) VALUES (?, ?, ?, ?)`,
		url, status, bodyBytes, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("recording visit: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("visit id: %w", err)
	}
	return id, nil
}

// Recent returns up to n visits, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Visit, error) {
	if n <= 0 {
		n = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, url, status, body_bytes, visited_at FROM visits ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("querying visits: %w", err)
	}
	defer rows.Close()
	return scanVisits(rows)
}

// Search returns up to n visits whose URL contains the substring, newest
// first.
func (s *Store) Search(ctx context.Context, substr string, n int) ([]Visit, error) {
	if n <= 0 {
		n = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, url, status, body_bytes, visited_at FROM visits
		 WHERE url LIKE '%' || ? || '%' ORDER BY id DESC LIMIT ?`, substr, n)
	if err != nil {
		return nil, fmt.Errorf("searching visits: %w", err)
	}
	defer rows.Close()
	return scanVisits(rows)
}

// Clear removes all visits.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM visits`); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

func scanVisits(rows *sql.Rows) ([]Visit, error) {
	var out []Visit
	for rows.Next() {
		var v Visit
		var visitedAt string
		if err := rows.Scan(&v.ID, &v.URL, &v.Status, &v.BodyBytes, &visitedAt); err != nil {
			return nil, fmt.Errorf("scanning visit: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, visitedAt); err == nil {
			v.VisitedAt = t
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
