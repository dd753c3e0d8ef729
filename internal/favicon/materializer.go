// Package favicon materializes Firefox favicon blobs as files in the data
// directory.
package favicon

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starford/foxdex/internal/places"
)

// DirName is the icon subdirectory inside the data directory.
const DirName = "favicons"

// Replace clears the icon directory and writes one file per bookmark whose
// URL hash has a matching blob. It returns guid -> absolute file path for
// bookmarks that got a real icon.
//
// Deletions and writes are best-effort per file: a failure on one entry
// must not abort the others. The directory as a whole must be writable or
// the rebuild fails.
func Replace(dir string, blobs map[int64][]byte, bookmarks []places.Bookmark, logger *slog.Logger) (map[string]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("favicon: create dir: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("favicon: read dir: %w", err)
	}
	for _, e := range entries {
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			logger.Warn("favicon: remove stale icon failed",
				slog.String("name", e.Name()),
				slog.String("error", err.Error()))
		}
	}

	paths := make(map[string]string)
	for _, b := range bookmarks {
		data, ok := blobs[b.URLHash]
		if !ok {
			continue
		}
		path := filepath.Join(dir, FileName(b.GUID))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			logger.Warn("favicon: write icon failed",
				slog.String("guid", b.GUID),
				slog.String("error", err.Error()))
			continue
		}
		paths[b.GUID] = path
	}
	return paths, nil
}

// FileName returns the deterministic icon file name for a bookmark guid.
func FileName(guid string) string {
	return "favicon_" + guid + ".png"
}
