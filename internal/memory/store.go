// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package memory provides persistent conversation memory backed by SQLite.
// Stored turns and file uploads are recalled as context for later requests.
package memory

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrDatabaseError = errors.New("database error")
	ErrClosed        = errors.New("memory store closed")
)

// =============================================================================
// ENTRIES
// =============================================================================

// EntryType classifies what a memory records.
type EntryType string

const (
	TypeConversation EntryType = "conversation"
	TypeFileData     EntryType = "file_data"
	TypeAnalysis     EntryType = "analysis"
)

// Entry is one stored memory.
type Entry struct {
	ID        string
	Type      EntryType
	Content   string
	CreatedAt time.Time
}

// Stats summarizes what the store holds.
type Stats struct {
	Total   int
	ByType  map[EntryType]int
	Oldest  time.Time
	Newest  time.Time
	DBBytes int64
}

// =============================================================================
// STORE
// =============================================================================

const schema = `
CREATE TABLE IF NOT EXISTS memories (
	id         TEXT PRIMARY KEY,
	entry_type TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_memories_created ON memories(created_at);
CREATE INDEX IF NOT EXISTS idx_memories_type ON memories(entry_type);
`

// Store persists memories in a SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) a memory store at the given database path.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// =============================================================================
// WRITES
// =============================================================================

// Add stores one memory and returns its entry.
func (s *Store) Add(entryType EntryType, content string) (*Entry, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	entry := &Entry{
		ID:        uuid.NewString(),
		Type:      entryType,
		Content:   content,
		CreatedAt: time.Now(),
	}
	_, err := s.db.Exec(
		"INSERT INTO memories (id, entry_type, content, created_at) VALUES (?, ?, ?, ?)",
		entry.ID, string(entry.Type), entry.Content, entry.CreatedAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return entry, nil
}

// AddConversationTurn stores one user/assistant exchange.
func (s *Store) AddConversationTurn(userMessage, assistantMessage string) error {
	content := fmt.Sprintf("User: %s\nAssistant: %s", userMessage, assistantMessage)
	_, err := s.Add(TypeConversation, content)
	return err
}

// AddFileData stores a record of an uploaded dataset.
func (s *Store) AddFileData(filename string, rows int, columns []string) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "File: %s\n", filename)
	if rows > 0 {
		fmt.Fprintf(&sb, "Rows: %d\n", rows)
	}
	if len(columns) > 0 {
		fmt.Fprintf(&sb, "Columns: %s\n", strings.Join(columns, ", "))
	}
	_, err := s.Add(TypeFileData, sb.String())
	return err
}

// ClearOlderThan deletes memories created before the cutoff and returns
// how many were removed.
func (s *Store) ClearOlderThan(age time.Duration) (int, error) {
	if s.db == nil {
		return 0, ErrClosed
	}
	cutoff := time.Now().Add(-age).Unix()
	result, err := s.db.Exec("DELETE FROM memories WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	n, _ := result.RowsAffected()
	return int(n), nil
}

// =============================================================================
// READS
// =============================================================================

// Recent returns memories created within the window, newest first. An empty
// type list matches every type.
func (s *Store) Recent(window time.Duration, types ...EntryType) ([]*Entry, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	cutoff := time.Now().Add(-window).Unix()

	query := "SELECT id, entry_type, content, created_at FROM memories WHERE created_at >= ?"
	args := []any{cutoff}
	if len(types) > 0 {
		placeholders := make([]string, len(types))
		for i, t := range types {
			placeholders[i] = "?"
			args = append(args, string(t))
		}
		query += " AND entry_type IN (" + strings.Join(placeholders, ", ") + ")"
	}
	query += " ORDER BY created_at DESC"

	return s.queryEntries(query, args...)
}

// Search returns up to limit memories whose content matches the query,
// newest first. Matching is case-insensitive substring per term.
func (s *Store) Search(query string, limit int) ([]*Entry, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = 5
	}

	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil, nil
	}

	var conds []string
	var args []any
	for _, term := range terms {
		conds = append(conds, `LOWER(content) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(term)+"%")
	}
	args = append(args, limit)

	q := "SELECT id, entry_type, content, created_at FROM memories WHERE " +
		strings.Join(conds, " OR ") + " ORDER BY created_at DESC LIMIT ?"
	return s.queryEntries(q, args...)
}

// GetStats reports counts and age range for the stored memories.
func (s *Store) GetStats() (Stats, error) {
	stats := Stats{ByType: make(map[EntryType]int)}
	if s.db == nil {
		return stats, ErrClosed
	}

	rows, err := s.db.Query("SELECT entry_type, COUNT(*) FROM memories GROUP BY entry_type")
	if err != nil {
		return stats, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return stats, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		stats.ByType[EntryType(t)] = n
		stats.Total += n
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	if stats.Total > 0 {
		var oldest, newest int64
		err = s.db.QueryRow("SELECT MIN(created_at), MAX(created_at) FROM memories").Scan(&oldest, &newest)
		if err != nil {
			return stats, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		stats.Oldest = time.Unix(oldest, 0)
		stats.Newest = time.Unix(newest, 0)
	}

	if info, err := os.Stat(s.path); err == nil {
		stats.DBBytes = info.Size()
	}
	return stats, nil
}

// =============================================================================
// CONTEXT ASSEMBLY
// =============================================================================

// maxContextLength bounds the assembled context block in bytes.
const maxContextLength = 2000

// Context assembles a context block for the query from matching and recent
// memories. Entries render as "[TYPE] content" lines; the block is capped
// at maxContextLength.
func (s *Store) Context(query string) (string, error) {
	matched, err := s.Search(query, 3)
	if err != nil {
		return "", err
	}
	recent, err := s.Recent(2*time.Hour, TypeConversation, TypeFileData)
	if err != nil {
		return "", err
	}

	seen := make(map[string]bool)
	var parts []string
	length := 0
	for _, entry := range append(matched, recent...) {
		if seen[entry.ID] {
			continue
		}
		seen[entry.ID] = true

		line := fmt.Sprintf("[%s] %s", strings.ToUpper(string(entry.Type)), entry.Content)
		if length+len(line) > maxContextLength {
			break
		}
		parts = append(parts, line)
		length += len(line)
	}
	return strings.Join(parts, "\n"), nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Store) queryEntries(query string, args ...any) ([]*Entry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var entry Entry
		var t string
		var created int64
		if err := rows.Scan(&entry.ID, &t, &entry.Content, &created); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		entry.Type = EntryType(t)
		entry.CreatedAt = time.Unix(created, 0)
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return entries, nil
}

// escapeLike escapes LIKE wildcards in user input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
