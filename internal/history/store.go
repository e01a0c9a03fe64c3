// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history persists submitted console lines.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Schema is the history database schema.
const Schema = `
CREATE TABLE IF NOT EXISTS entries (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session    TEXT    NOT NULL,
	line       TEXT    NOT NULL,
	ok         INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entries_session ON entries(session);
`

// ErrClosed is returned by a store after Close.
var ErrClosed = errors.New("history store is closed")

// Entry is one submitted line.
type Entry struct {
	ID      int64
	Session uuid.UUID
	Line    string
	OK      bool
	At      time.Time
}

// Store is the SQLite-backed line history. One Store is one session.
type Store struct {
	mu         sync.Mutex
	db         *sql.DB
	session    uuid.UUID
	maxEntries int
}

// Open opens (creating if needed) the history database at path. maxEntries
// bounds the table; older lines are pruned on every write.
func Open(path string, maxEntries int) (*Store, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA busy_timeout=2000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if maxEntries < 1 {
		maxEntries = 1
	}
	return &Store{db: db, session: uuid.New(), maxEntries: maxEntries}, nil
}

// Session returns this store's session id.
func (s *Store) Session() uuid.UUID { return s.session }

// Record appends a line with its outcome and prunes old entries.
func (s *Store) Record(ctx context.Context, line string, ok bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return ErrClosed
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO entries (session, line, ok, created_at) VALUES (?, ?, ?, ?)",
		s.session.String(), line, ok, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to record line: %w", err)
	}
	_, err = s.prune(ctx)
	return err
}

// Recent returns up to limit entries, oldest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session, line, ok, created_at FROM (
			SELECT * FROM entries ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			session string
			nanos   int64
		)
		if err := rows.Scan(&e.ID, &session, &e.Line, &e.OK, &nanos); err != nil {
			return nil, fmt.Errorf("failed to read history: %w", err)
		}
		e.Session, _ = uuid.Parse(session)
		e.At = time.Unix(0, nanos)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Lines returns the text of up to limit recent entries, oldest first, with
// consecutive repeats collapsed.
func (s *Store) Lines(ctx context.Context, limit int) ([]string, error) {
	entries, err := s.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		if n := len(lines); n > 0 && lines[n-1] == e.Line {
			continue
		}
		lines = append(lines, e.Line)
	}
	return lines, nil
}

// Prune deletes all but the newest maxEntries entries.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return 0, ErrClosed
	}
	return s.prune(ctx)
}

func (s *Store) prune(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM entries WHERE id NOT IN (SELECT id FROM entries ORDER BY id DESC LIMIT ?)",
		s.maxEntries)
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
