// Package testutil provides shared test helpers for building fixture
// Firefox roots with places and favicons stores.
package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// Place is a fixture row for moz_places. A Title of "" is stored as NULL,
// matching what Firefox does for never-titled pages.
type Place struct {
	ID     int64
	URL    string
	Title  string
	Hidden bool
	Hash   int64
	GUID   string
}

// Bookmark is a fixture row for moz_bookmarks. Type defaults to 1
// (bookmark leaf) when zero.
type Bookmark struct {
	ID    int64
	FK    int64
	GUID  string
	Title string
	Type  int
}

const placesSchema = `
CREATE TABLE moz_places (
	id       INTEGER PRIMARY KEY,
	url      TEXT,
	title    TEXT,
	hidden   INTEGER NOT NULL DEFAULT 0,
	url_hash INTEGER NOT NULL DEFAULT 0,
	guid     TEXT
);

CREATE TABLE moz_bookmarks (
	id    INTEGER PRIMARY KEY,
	type  INTEGER NOT NULL DEFAULT 1,
	fk    INTEGER,
	guid  TEXT,
	title TEXT
);
`

const faviconsSchema = `
CREATE TABLE moz_icons (
	id   INTEGER PRIMARY KEY,
	data BLOB
);

CREATE TABLE moz_pages_w_icons (
	id            INTEGER PRIMARY KEY,
	page_url_hash INTEGER
);

CREATE TABLE moz_icons_to_pages (
	icon_id INTEGER,
	page_id INTEGER
);
`

// WritePlaces creates a places.sqlite in dir with the given fixture rows.
func WritePlaces(t *testing.T, dir string, places []Place, bookmarks []Bookmark) {
	t.Helper()
	conn := createStore(t, filepath.Join(dir, "places.sqlite"), placesSchema)
	defer conn.Close()

	for _, p := range places {
		var title any
		if p.Title != "" {
			title = p.Title
		}
		hidden := 0
		if p.Hidden {
			hidden = 1
		}
		if _, err := conn.Exec(
			`INSERT INTO moz_places (id, url, title, hidden, url_hash, guid) VALUES (?, ?, ?, ?, ?, ?)`,
			p.ID, p.URL, title, hidden, p.Hash, p.GUID,
		); err != nil {
			t.Fatalf("insert place: %v", err)
		}
	}
	for _, b := range bookmarks {
		typ := b.Type
		if typ == 0 {
			typ = 1
		}
		var title any
		if b.Title != "" {
			title = b.Title
		}
		if _, err := conn.Exec(
			`INSERT INTO moz_bookmarks (id, type, fk, guid, title) VALUES (?, ?, ?, ?, ?)`,
			b.ID, typ, b.FK, b.GUID, title,
		); err != nil {
			t.Fatalf("insert bookmark: %v", err)
		}
	}
}

// WriteFavicons creates a favicons.sqlite in dir mapping each url hash to
// one icon blob.
func WriteFavicons(t *testing.T, dir string, icons map[int64][]byte) {
	t.Helper()
	conn := createStore(t, filepath.Join(dir, "favicons.sqlite"), faviconsSchema)
	defer conn.Close()

	var id int64
	for hash, data := range icons {
		id++
		if _, err := conn.Exec(`INSERT INTO moz_icons (id, data) VALUES (?, ?)`, id, data); err != nil {
			t.Fatalf("insert icon: %v", err)
		}
		if _, err := conn.Exec(`INSERT INTO moz_pages_w_icons (id, page_url_hash) VALUES (?, ?)`, id, hash); err != nil {
			t.Fatalf("insert page: %v", err)
		}
		if _, err := conn.Exec(`INSERT INTO moz_icons_to_pages (icon_id, page_id) VALUES (?, ?)`, id, id); err != nil {
			t.Fatalf("insert icon-to-page: %v", err)
		}
	}
}

// WriteRegistry writes a profiles.ini listing the given profile paths as
// Profile0..ProfileN sections.
func WriteRegistry(t *testing.T, root string, profiles ...string) {
	t.Helper()
	content := ""
	for i, p := range profiles {
		content += fmt.Sprintf("[Profile%d]\nName=profile-%d\nPath=%s\nIsRelative=1\n\n", i, i, p)
	}
	if err := os.WriteFile(filepath.Join(root, "profiles.ini"), []byte(content), 0o644); err != nil {
		t.Fatalf("write profiles.ini: %v", err)
	}
}

// FirefoxRoot creates a temp Firefox root with one profile directory
// containing both stores, and returns (root, profile relative path).
func FirefoxRoot(t *testing.T, places []Place, bookmarks []Bookmark, icons map[int64][]byte) (string, string) {
	t.Helper()
	root := t.TempDir()
	const rel = "abc123.default"
	dir := filepath.Join(root, rel)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	WritePlaces(t, dir, places, bookmarks)
	WriteFavicons(t, dir, icons)
	WriteRegistry(t, root, rel)
	return root, rel
}

func createStore(t *testing.T, path, schema string) *sql.DB {
	t.Helper()
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open fixture store: %v", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		t.Fatalf("apply fixture schema: %v", err)
	}
	return conn
}
