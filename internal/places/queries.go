package places

import (
	"database/sql"
	"fmt"
)

// Bookmark is one bookmark row joined to its place entry. URLHash is only
// used to join favicons.
type Bookmark struct {
	GUID    string
	Title   string
	URL     string
	URLHash int64
}

// HistoryEntry is one visited place that has no bookmark.
type HistoryEntry struct {
	GUID  string
	Title string
	URL   string
}

// Bookmarks returns all bookmark leaves joined to their places, in store
// order, excluding hidden places and NULL URLs.
func (db *DB) Bookmarks() ([]Bookmark, error) {
	rows, err := db.conn.Query(`
		SELECT bookmark.guid, bookmark.title, place.url, place.url_hash
		FROM moz_bookmarks bookmark
		  JOIN moz_places place ON place.id = bookmark.fk
		WHERE bookmark.type = 1
		  AND place.hidden = 0
		  AND place.url IS NOT NULL
	`)
	if err != nil {
		return nil, fmt.Errorf("places: bookmarks: %w", err)
	}
	defer rows.Close()

	var out []Bookmark
	for rows.Next() {
		var b Bookmark
		var title sql.NullString
		if err := rows.Scan(&b.GUID, &title, &b.URL, &b.URLHash); err != nil {
			return nil, fmt.Errorf("places: scan bookmark: %w", err)
		}
		b.Title = title.String
		out = append(out, b)
	}
	return out, rows.Err()
}

// History returns all visited places without a matching bookmark, in store
// order, excluding hidden places and NULL URLs.
func (db *DB) History() ([]HistoryEntry, error) {
	rows, err := db.conn.Query(`
		SELECT place.guid, place.title, place.url
		FROM moz_places place
		  LEFT JOIN moz_bookmarks bookmark ON place.id = bookmark.fk
		WHERE place.hidden = 0
		  AND place.url IS NOT NULL
		  AND bookmark.id IS NULL
	`)
	if err != nil {
		return nil, fmt.Errorf("places: history: %w", err)
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var h HistoryEntry
		var title sql.NullString
		if err := rows.Scan(&h.GUID, &title, &h.URL); err != nil {
			return nil, fmt.Errorf("places: scan history: %w", err)
		}
		h.Title = title.String
		out = append(out, h)
	}
	return out, rows.Err()
}

// Favicons returns icon blobs keyed by page URL hash, read from a favicons
// store. When several icons share a hash the last row scanned wins; result
// order is not guaranteed by the engine, so the tie-break is deliberately
// unspecified.
func (db *DB) Favicons() (map[int64][]byte, error) {
	rows, err := db.conn.Query(`
		SELECT moz_pages_w_icons.page_url_hash, moz_icons.data
		FROM moz_icons
		  INNER JOIN moz_icons_to_pages ON moz_icons.id = moz_icons_to_pages.icon_id
		  INNER JOIN moz_pages_w_icons ON moz_icons_to_pages.page_id = moz_pages_w_icons.id
	`)
	if err != nil {
		return nil, fmt.Errorf("places: favicons: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]byte)
	for rows.Next() {
		var hash int64
		var data []byte
		if err := rows.Scan(&hash, &data); err != nil {
			return nil, fmt.Errorf("places: scan favicon: %w", err)
		}
		out[hash] = data
	}
	return out, rows.Err()
}
