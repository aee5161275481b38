package persist

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/raido/internal/store"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS bookmarks (
	path   TEXT NOT NULL,
	line   INTEGER NOT NULL,
	col    INTEGER NOT NULL DEFAULT 0,
	label  TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (path, line)
);

CREATE INDEX IF NOT EXISTS idx_bookmarks_path ON bookmarks(path);
`

// SQLite persists the snapshot in a SQLite database, for hosts that share
// one global bookmark state across sessions.
type SQLite struct {
	conn *sql.DB
}

// OpenSQLite opens (or creates) the database and applies the schema.
func OpenSQLite(dsn string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("persist: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("persist: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("persist: apply schema: %w", err)
	}
	return &SQLite{conn: conn}, nil
}

// Load reads every row ordered by path and line. Rows with a negative line
// are discarded, matching the file backend's tolerance of malformed entries.
func (s *SQLite) Load() (store.Snapshot, error) {
	rows, err := s.conn.Query(`SELECT path, line, col, label FROM bookmarks ORDER BY path, line`)
	if err != nil {
		return nil, fmt.Errorf("persist: query: %w", err)
	}
	defer rows.Close()

	snap := store.Snapshot{}
	for rows.Next() {
		var (
			path  string
			entry store.Entry
		)
		if err := rows.Scan(&path, &entry.Line, &entry.Column, &entry.Label); err != nil {
			return nil, fmt.Errorf("persist: scan: %w", err)
		}
		if entry.Line < 0 {
			continue
		}
		snap[path] = append(snap[path], entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("persist: rows: %w", err)
	}
	return snap, nil
}

// Save replaces all rows with the snapshot's contents in one transaction.
func (s *SQLite) Save(snap store.Snapshot) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("persist: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM bookmarks`); err != nil {
		return fmt.Errorf("persist: clear: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO bookmarks (path, line, col, label) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("persist: prepare insert: %w", err)
	}
	defer stmt.Close()

	for path, entries := range snap {
		for _, e := range entries {
			if _, err := stmt.Exec(path, e.Line, e.Column, e.Label); err != nil {
				return fmt.Errorf("persist: insert %s:%d: %w", path, e.Line, err)
			}
		}
	}
	return tx.Commit()
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.conn.Close()
}
