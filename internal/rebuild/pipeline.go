// Package rebuild owns the background index rebuild: the pipeline that
// reads the Firefox stores and publishes a new catalog generation, the
// single-slot coordinator that serializes runs, and the store watcher
// that schedules them.
package rebuild

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/starford/foxdex/internal/apperr"
	"github.com/starford/foxdex/internal/catalog"
	"github.com/starford/foxdex/internal/favicon"
	"github.com/starford/foxdex/internal/places"
	"github.com/starford/foxdex/internal/profile"
	"github.com/starford/foxdex/internal/settings"
	"github.com/starford/foxdex/internal/sse"
)

// Pipeline executes one full rebuild pass: read stores, materialize
// favicons, build items, publish atomically.
type Pipeline struct {
	locator  *profile.Locator
	settings *settings.Store
	set      *catalog.Set
	defaults favicon.Defaults
	iconDir  string
	broker   *sse.Broker
	logger   *slog.Logger
}

// NewPipeline creates a rebuild pipeline. broker may be nil when no event
// stream is wanted (tests, MCP-only mode).
func NewPipeline(locator *profile.Locator, st *settings.Store, set *catalog.Set, defaults favicon.Defaults, iconDir string, broker *sse.Broker, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		locator:  locator,
		settings: st,
		set:      set,
		defaults: defaults,
		iconDir:  iconDir,
		broker:   broker,
		logger:   logger,
	}
}

// Run performs one rebuild. The settings snapshot is taken here, at
// execution start, so a run scheduled while another was in flight reflects
// the latest configuration.
//
// Failure policy: a missing or unopenable places store aborts the run and
// the error surfaces through the coordinator's error boundary; the
// previously published generation stays visible. Query failures degrade to
// empty results (favicon failures at lower severity, they are cosmetic).
func (p *Pipeline) Run() error {
	snap := p.settings.Snapshot()
	if snap.ProfilePath == "" {
		return fmt.Errorf("rebuild: %w", apperr.ErrNoProfiles)
	}
	dir := p.locator.ProfileDir(snap.ProfilePath)

	db, err := places.Open(filepath.Join(dir, profile.PlacesFile))
	if err != nil {
		return err
	}
	defer db.Close()

	bookmarks, err := db.Bookmarks()
	if err != nil {
		p.logger.Error("rebuild: read bookmarks failed", slog.String("error", err.Error()))
		bookmarks = nil
	}
	p.logger.Info("rebuild: bookmarks read", slog.Int("count", len(bookmarks)))

	var history []places.HistoryEntry
	if snap.IndexHistory {
		history, err = db.History()
		if err != nil {
			p.logger.Error("rebuild: read history failed", slog.String("error", err.Error()))
			history = nil
		}
		p.logger.Info("rebuild: history read", slog.Int("count", len(history)))
	}

	blobs := p.readFavicons(dir)

	icons, err := favicon.Replace(p.iconDir, blobs, bookmarks, p.logger)
	if err != nil {
		return err
	}

	items := catalog.Build(bookmarks, history, icons, p.defaults, snap.IndexHistory)
	sum := p.set.Replace(items)

	p.logger.Info("rebuild: published",
		slog.Int("items", len(items)),
		slog.String("profile", snap.ProfilePath),
		slog.Bool("index_history", snap.IndexHistory))

	if p.broker != nil {
		p.broker.PublishRebuilt(len(items), sum)
	}
	return nil
}

// readFavicons reads the favicons store for the profile. All failures
// degrade to an empty map at warning severity.
func (p *Pipeline) readFavicons(profileDir string) map[int64][]byte {
	db, err := places.Open(filepath.Join(profileDir, profile.FaviconsFile))
	if err != nil {
		p.logger.Warn("rebuild: open favicons store failed", slog.String("error", err.Error()))
		return map[int64][]byte{}
	}
	defer db.Close()

	blobs, err := db.Favicons()
	if err != nil {
		p.logger.Warn("rebuild: read favicons failed", slog.String("error", err.Error()))
		return map[int64][]byte{}
	}
	return blobs
}
