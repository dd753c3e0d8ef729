package rebuild

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/foxdex/internal/catalog"
	"github.com/starford/foxdex/internal/favicon"
	"github.com/starford/foxdex/internal/profile"
	"github.com/starford/foxdex/internal/settings"
	"github.com/starford/foxdex/internal/testutil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixtureEnv wires a pipeline against a fixture Firefox root.
type fixtureEnv struct {
	pipeline *Pipeline
	settings *settings.Store
	set      *catalog.Set
}

func newFixtureEnv(t *testing.T, places []testutil.Place, bookmarks []testutil.Bookmark, icons map[int64][]byte) *fixtureEnv {
	t.Helper()
	root, rel := testutil.FirefoxRoot(t, places, bookmarks, icons)

	dataDir := t.TempDir()
	st, err := settings.Open(dataDir)
	if err != nil {
		t.Fatalf("settings.Open: %v", err)
	}
	if _, err := st.Update(func(v *settings.Settings) { v.ProfilePath = rel }); err != nil {
		t.Fatalf("settings.Update: %v", err)
	}

	defaults, err := favicon.WriteDefaults(dataDir)
	if err != nil {
		t.Fatalf("WriteDefaults: %v", err)
	}

	set := catalog.NewSet()
	locator := profile.NewLocator(root, testLogger())
	p := NewPipeline(locator, st, set, defaults, filepath.Join(dataDir, favicon.DirName), nil, testLogger())
	return &fixtureEnv{pipeline: p, settings: st, set: set}
}

func TestPipeline_PublishesBookmarks(t *testing.T) {
	env := newFixtureEnv(t,
		[]testutil.Place{{ID: 1, URL: "https://ex.com", Title: "Example", Hash: 42, GUID: "p1"}},
		[]testutil.Bookmark{{ID: 10, FK: 1, GUID: "b1", Title: "Example"}},
		map[int64][]byte{42: []byte("icon")},
	)

	if err := env.pipeline.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	items := env.set.Items()
	if len(items) != 1 {
		t.Fatalf("published %d items, want 1", len(items))
	}
	it := items[0]
	if it.ID != "b1" || it.URL != "https://ex.com" {
		t.Errorf("item = %+v", it)
	}

	// The favicon blob for url_hash 42 must be materialized and referenced.
	iconPath := it.IconURLs[0]
	if filepath.Base(iconPath) != "favicon_b1.png" {
		t.Errorf("icon ref = %q", iconPath)
	}
	data, err := os.ReadFile(iconPath[len("file:"):])
	if err != nil || string(data) != "icon" {
		t.Errorf("materialized icon = %q, %v", data, err)
	}
}

func TestPipeline_HistoryToggle(t *testing.T) {
	env := newFixtureEnv(t,
		[]testutil.Place{
			{ID: 1, URL: "https://bm.com", Title: "Bookmarked", Hash: 1, GUID: "p1"},
			{ID: 2, URL: "https://visited.com", Title: "Visited", Hash: 2, GUID: "p2"},
		},
		[]testutil.Bookmark{{ID: 10, FK: 1, GUID: "b1", Title: "Bookmarked"}},
		nil,
	)

	if err := env.pipeline.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := env.set.Len(); got != 1 {
		t.Errorf("history off: %d items, want 1", got)
	}

	if _, err := env.settings.Update(func(v *settings.Settings) { v.IndexHistory = true }); err != nil {
		t.Fatal(err)
	}
	if err := env.pipeline.Run(); err != nil {
		t.Fatalf("Run with history: %v", err)
	}
	if got := env.set.Len(); got != 2 {
		t.Errorf("history on: %d items, want 2", got)
	}
}

func TestPipeline_IdenticalRunsKeepChecksum(t *testing.T) {
	env := newFixtureEnv(t,
		[]testutil.Place{{ID: 1, URL: "https://ex.com", Title: "Example", Hash: 1, GUID: "p1"}},
		[]testutil.Bookmark{{ID: 10, FK: 1, GUID: "b1", Title: "Example"}},
		nil,
	)

	if err := env.pipeline.Run(); err != nil {
		t.Fatal(err)
	}
	first := env.set.Checksum()
	if err := env.pipeline.Run(); err != nil {
		t.Fatal(err)
	}
	if got := env.set.Checksum(); got != first {
		t.Errorf("checksum changed across identical runs: %q -> %q", first, got)
	}
}

func TestPipeline_MissingPlacesKeepsPreviousGeneration(t *testing.T) {
	env := newFixtureEnv(t,
		[]testutil.Place{{ID: 1, URL: "https://ex.com", Title: "Example", Hash: 1, GUID: "p1"}},
		[]testutil.Bookmark{{ID: 10, FK: 1, GUID: "b1", Title: "Example"}},
		nil,
	)
	if err := env.pipeline.Run(); err != nil {
		t.Fatal(err)
	}

	// Point at a profile whose stores do not exist.
	if _, err := env.settings.Update(func(v *settings.Settings) { v.ProfilePath = "gone.profile" }); err != nil {
		t.Fatal(err)
	}
	if err := env.pipeline.Run(); err == nil {
		t.Error("Run with missing places store should fail")
	}
	if got := env.set.Len(); got != 1 {
		t.Errorf("previous generation lost: %d items, want 1", got)
	}
}

func TestPipeline_NoProfileSelected(t *testing.T) {
	env := newFixtureEnv(t, nil, nil, nil)
	if _, err := env.settings.Update(func(v *settings.Settings) { v.ProfilePath = "" }); err != nil {
		t.Fatal(err)
	}
	if err := env.pipeline.Run(); err == nil {
		t.Error("Run without a selected profile should fail")
	}
}

func TestPipeline_MissingFaviconsDegrades(t *testing.T) {
	// Build a root by hand with a places store but no favicons store.
	root := t.TempDir()
	const rel = "solo.default"
	dir := filepath.Join(root, rel)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	testutil.WritePlaces(t, dir,
		[]testutil.Place{{ID: 1, URL: "https://ex.com", Title: "Example", Hash: 1, GUID: "p1"}},
		[]testutil.Bookmark{{ID: 10, FK: 1, GUID: "b1", Title: "Example"}})

	dataDir := t.TempDir()
	st, err := settings.Open(dataDir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.Update(func(v *settings.Settings) { v.ProfilePath = rel }); err != nil {
		t.Fatal(err)
	}
	defaults, err := favicon.WriteDefaults(dataDir)
	if err != nil {
		t.Fatal(err)
	}
	set := catalog.NewSet()
	p := NewPipeline(profile.NewLocator(root, testLogger()), st, set, defaults,
		filepath.Join(dataDir, favicon.DirName), nil, testLogger())

	if err := p.Run(); err != nil {
		t.Fatalf("Run should survive a missing favicons store: %v", err)
	}
	if set.Len() != 1 {
		t.Errorf("published %d items, want 1", set.Len())
	}
	if got := set.Items()[0].IconURLs[0]; got != "file:"+defaults.Bookmark {
		t.Errorf("icon ref = %q, want bundled fallback", got)
	}
}
