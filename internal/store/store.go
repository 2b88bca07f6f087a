// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/quipe/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// RequestCounterName is the counter incremented on each successful generation.
const RequestCounterName = "requestCount"

// Store wraps SQLite access for the request counter and quote history.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Single writer keeps the counter update atomic without busy retries.
	db.SetMaxOpenConns(1)
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS counters (
			name TEXT PRIMARY KEY,
			value INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS quotes (
			id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			author TEXT NOT NULL,
			category TEXT NOT NULL,
			topic TEXT NOT NULL,
			style TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_quotes_created_at ON quotes(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the current request counter value.
func (s *Store) Count(ctx context.Context) (int, error) {
	var value int
	err := s.db.QueryRowContext(ctx, `SELECT value FROM counters WHERE name = ?`, RequestCounterName).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return value, nil
}

// Increment adds one to the request counter and returns the new value.
func (s *Store) Increment(ctx context.Context) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO counters (name, value) VALUES (?, 1)
		 ON CONFLICT(name) DO UPDATE SET value = value + 1`,
		RequestCounterName,
	); err != nil {
		return 0, err
	}
	var value int
	if err = tx.QueryRowContext(ctx, `SELECT value FROM counters WHERE name = ?`, RequestCounterName).Scan(&value); err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return value, nil
}

// InsertQuote stores a generated quote. A missing ID or timestamp is filled in.
func (s *Store) InsertQuote(ctx context.Context, entry model.HistoryEntry) (model.HistoryEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO quotes (id, text, author, category, topic, style, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Text,
		entry.Author,
		entry.Category,
		entry.Topic,
		entry.Style,
		entry.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return model.HistoryEntry{}, err
	}
	return entry, nil
}

// ListQuotes returns stored quotes newest first. A limit <= 0 returns all rows.
func (s *Store) ListQuotes(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, author, category, topic, style, created_at
		 FROM quotes
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var entries []model.HistoryEntry
	for rows.Next() {
		var entry model.HistoryEntry
		var createdAt string
		if err := rows.Scan(&entry.ID, &entry.Text, &entry.Author, &entry.Category, &entry.Topic, &entry.Style, &createdAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, err
		}
		entry.CreatedAt = parsed
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
