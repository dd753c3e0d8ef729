package rebuild

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/foxdex/internal/profile"
)

// debounceDelay batches the bursts of store writes Firefox produces into a
// single rebuild trigger.
const debounceDelay = 2 * time.Second

// Watch starts an fsnotify watcher over the Firefox root and every
// discovered profile directory, and processes events until ctx is
// cancelled. A write to one of the selected profile's store files
// (places.sqlite or favicons.sqlite, including their -wal/-shm siblings)
// schedules a debounced trigger().
//
// selected returns the currently selected profile path; it is consulted at
// event time, so a profile switch needs no watcher restart. New profile
// directories created at runtime are added to the watch list.
func Watch(ctx context.Context, locator *profile.Locator, selected func() string, trigger func(), logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(locator.Root()); err != nil {
		return err
	}
	for _, rel := range locator.List() {
		if addErr := w.Add(locator.ProfileDir(rel)); addErr != nil {
			logger.Warn("watcher: add profile dir failed",
				slog.String("profile", rel),
				slog.String("error", addErr.Error()))
		}
	}

	logger.Info("watcher: started", slog.String("root", locator.Root()))

	var debounce *time.Timer
	var debounceCh <-chan time.Time

	schedule := func() {
		if debounce == nil {
			debounce = time.NewTimer(debounceDelay)
			debounceCh = debounce.C
		} else {
			debounce.Reset(debounceDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-debounceCh:
			logger.Debug("watcher: store changed, triggering rebuild")
			trigger()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			// New directories under the root are candidate profiles.
			if ev.Op&fsnotify.Create != 0 && filepath.Dir(ev.Name) == locator.Root() {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := w.Add(ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					continue
				}
			}

			if !isStoreFile(filepath.Base(ev.Name)) {
				continue
			}
			sel := selected()
			if sel == "" || filepath.Dir(ev.Name) != locator.ProfileDir(sel) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// isStoreFile matches the two store files and their SQLite journal
// siblings, which are what actually change while Firefox runs.
func isStoreFile(name string) bool {
	for _, base := range []string{profile.PlacesFile, profile.FaviconsFile} {
		if name == base || strings.HasPrefix(name, base+"-") {
			return true
		}
	}
	return false
}
