// Package profile discovers Firefox profiles from the profiles.ini registry.
package profile

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// Store file names that must exist for a profile to be usable.
const (
	PlacesFile   = "places.sqlite"
	FaviconsFile = "favicons.sqlite"
)

// registryFile is the profile registry inside the Firefox root.
const registryFile = "profiles.ini"

// Locator enumerates usable profiles under a Firefox root directory.
type Locator struct {
	root   string
	logger *slog.Logger
}

// NewLocator creates a Locator rooted at the given Firefox directory
// (typically ~/.mozilla/firefox).
func NewLocator(root string, logger *slog.Logger) *Locator {
	return &Locator{root: root, logger: logger}
}

// Root returns the Firefox root directory.
func (l *Locator) Root() string {
	return l.root
}

// ProfileDir returns the absolute directory of a profile given its
// registry-relative path.
func (l *Locator) ProfileDir(rel string) string {
	return filepath.Join(l.root, rel)
}

// List returns the relative paths of all registered profiles that have both
// required store files on disk, in registry order. A missing root or an
// unreadable registry degrades to an empty list with a warning; it is not
// an error.
func (l *Locator) List() []string {
	var profiles []string

	if _, err := os.Stat(l.root); err != nil {
		return profiles
	}

	cfg, err := ini.Load(filepath.Join(l.root, registryFile))
	if err != nil {
		l.logger.Warn("profile: read registry failed",
			slog.String("root", l.root),
			slog.String("error", err.Error()))
		return profiles
	}

	for _, section := range cfg.Sections() {
		if !strings.HasPrefix(section.Name(), "Profile") || !section.HasKey("Path") {
			continue
		}
		rel := section.Key("Path").String()
		dir := l.ProfileDir(rel)
		if !fileExists(filepath.Join(dir, PlacesFile)) || !fileExists(filepath.Join(dir, FaviconsFile)) {
			continue
		}
		profiles = append(profiles, rel)
	}

	return profiles
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
