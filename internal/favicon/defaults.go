package favicon

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed assets/bookmark.svg
var bookmarkSVG []byte

//go:embed assets/history.svg
var historySVG []byte

// Defaults holds the on-disk paths of the bundled fallback icons.
type Defaults struct {
	Bookmark string
	History  string
}

// WriteDefaults materializes the bundled bookmark and history icons into
// the data directory so that file: icon references resolve for items
// without a favicon.
func WriteDefaults(dataDir string) (Defaults, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return Defaults{}, fmt.Errorf("favicon: create data dir: %w", err)
	}
	d := Defaults{
		Bookmark: filepath.Join(dataDir, "firefox_bookmark.svg"),
		History:  filepath.Join(dataDir, "firefox_history.svg"),
	}
	if err := os.WriteFile(d.Bookmark, bookmarkSVG, 0o644); err != nil {
		return Defaults{}, fmt.Errorf("favicon: write bookmark icon: %w", err)
	}
	if err := os.WriteFile(d.History, historySVG, 0o644); err != nil {
		return Defaults{}, fmt.Errorf("favicon: write history icon: %w", err)
	}
	return d, nil
}
