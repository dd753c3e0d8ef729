// Package places reads Firefox places and favicons stores without ever
// locking or mutating them.
package places

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/foxdex/internal/apperr"
)

// DB wraps a read-only connection to a Firefox SQLite store.
type DB struct {
	conn *sql.DB
}

// Open opens the store at path in immutable read-only mode. The immutable
// flag is required: the live Firefox process may hold the store open, and
// the read must never block on or interfere with its writer.
//
// Existence is checked explicitly before opening, because opening an
// immutable connection against a missing file behaves inconsistently; a
// missing store reports apperr.ErrNotFound.
func Open(path string) (*DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("places: store %s: %w", path, apperr.ErrNotFound)
	}

	dsn := fmt.Sprintf("file:%s?immutable=1&mode=ro", path)
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("places: open %s: %w", path, err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("places: ping %s: %w", path, err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
