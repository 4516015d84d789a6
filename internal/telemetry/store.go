package telemetry

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	kind TEXT NOT NULL,
	at INTEGER NOT NULL,
	hashed_ip TEXT,
	user_agent TEXT,
	path TEXT,
	detail TEXT
);
CREATE INDEX IF NOT EXISTS events_kind ON events(kind);`

// Store records events in a sqlite database.
type Store struct {
	db *sql.DB
}

// Open creates the database file and its parent directory if missing.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create telemetry dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open telemetry db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate telemetry db: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Record(ctx context.Context, e Event) error {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (kind, at, hashed_ip, user_agent, path, detail) VALUES (?, ?, ?, ?, ?, ?)`,
		string(e.Kind), e.At.UnixMilli(), e.HashedIP, e.UserAgent, e.Path, e.Detail)
	if err != nil {
		return fmt.Errorf("record %s: %w", e.Kind, err)
	}
	return nil
}

// Counts returns the number of events per kind.
func (s *Store) Counts(ctx context.Context) (map[Kind]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM events GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	defer rows.Close()

	out := make(map[Kind]int64)
	for rows.Next() {
		var k string
		var n int64
		if err := rows.Scan(&k, &n); err != nil {
			return nil, err
		}
		out[Kind(k)] = n
	}
	return out, rows.Err()
}

// UniqueVisitors counts distinct hashed addresses among visit events.
func (s *Store) UniqueVisitors(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT hashed_ip) FROM events WHERE kind = ? AND hashed_ip != ''`, string(Visit)).Scan(&n)
	return n, err
}

// Recent returns up to limit events, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, at, hashed_ip, user_agent, path, detail FROM events ORDER BY at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			e    Event
			kind string
			at   int64
		)
		if err := rows.Scan(&kind, &at, &e.HashedIP, &e.UserAgent, &e.Path, &e.Detail); err != nil {
			return nil, err
		}
		e.Kind = Kind(kind)
		e.At = time.UnixMilli(at)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) Close() error { return s.db.Close() }
