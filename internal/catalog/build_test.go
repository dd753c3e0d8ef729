package catalog

import (
	"reflect"
	"testing"

	"github.com/starford/foxdex/internal/favicon"
	"github.com/starford/foxdex/internal/places"
)

var testDefaults = favicon.Defaults{
	Bookmark: "/data/firefox_bookmark.svg",
	History:  "/data/firefox_history.svg",
}

func TestBuild_BookmarkWinsOverHistory(t *testing.T) {
	bookmarks := []places.Bookmark{
		{GUID: "b1", Title: "Example", URL: "https://ex.com"},
	}
	history := []places.HistoryEntry{
		{GUID: "h1", Title: "Example again", URL: "https://ex.com"},
		{GUID: "h2", Title: "Other", URL: "https://other.com"},
	}

	items := Build(bookmarks, history, nil, testDefaults, true)
	if len(items) != 2 {
		t.Fatalf("Build returned %d items, want 2: %+v", len(items), items)
	}
	if items[0].ID != "b1" || items[1].ID != "h2" {
		t.Errorf("item order = [%s %s], want [b1 h2]", items[0].ID, items[1].ID)
	}
}

func TestBuild_HistoryToggle(t *testing.T) {
	history := []places.HistoryEntry{{GUID: "h1", URL: "https://h.com"}}

	if got := Build(nil, history, nil, testDefaults, false); len(got) != 0 {
		t.Errorf("history disabled: got %d items, want 0", len(got))
	}
	if got := Build(nil, history, nil, testDefaults, true); len(got) != 1 {
		t.Errorf("history enabled: got %d items, want 1", len(got))
	}
}

func TestBuild_EmptyTitleFallsBackToURL(t *testing.T) {
	items := Build([]places.Bookmark{{GUID: "b1", URL: "https://ex.com"}}, nil, nil, testDefaults, false)
	if len(items) != 1 {
		t.Fatal("expected one item")
	}
	it := items[0]
	if it.Text != "https://ex.com" {
		t.Errorf("Text = %q, want the URL", it.Text)
	}
	// The title contributes nothing, but the separator stays so match
	// behavior does not depend on whether a title exists.
	if it.SearchText != " https://ex.com" {
		t.Errorf("SearchText = %q", it.SearchText)
	}
}

func TestBuild_IconSelection(t *testing.T) {
	bookmarks := []places.Bookmark{
		{GUID: "with", URL: "https://a.com"},
		{GUID: "without", URL: "https://b.com"},
	}
	history := []places.HistoryEntry{{GUID: "h1", URL: "https://c.com"}}
	icons := map[string]string{"with": "/data/favicons/favicon_with.png"}

	items := Build(bookmarks, history, icons, testDefaults, true)
	if len(items) != 3 {
		t.Fatalf("got %d items", len(items))
	}

	want := [][]string{
		{"file:/data/favicons/favicon_with.png", "xdg:firefox"},
		{"file:/data/firefox_bookmark.svg", "xdg:firefox"},
		{"file:/data/firefox_history.svg", "xdg:firefox"},
	}
	for i, w := range want {
		if !reflect.DeepEqual(items[i].IconURLs, w) {
			t.Errorf("item %d IconURLs = %v, want %v", i, items[i].IconURLs, w)
		}
	}
}

func TestBuild_ActionsCarryURL(t *testing.T) {
	items := Build([]places.Bookmark{{GUID: "b1", Title: "T", URL: "https://ex.com"}}, nil, nil, testDefaults, false)
	acts := items[0].Actions
	if len(acts) != 2 {
		t.Fatalf("got %d actions, want 2", len(acts))
	}
	if acts[0].Kind != ActionOpen || acts[1].Kind != ActionCopy {
		t.Errorf("action kinds = [%s %s]", acts[0].Kind, acts[1].Kind)
	}
	for _, a := range acts {
		if a.URL != "https://ex.com" {
			t.Errorf("action %s URL = %q", a.Kind, a.URL)
		}
	}
}

func TestBuild_DuplicateBookmarkURLs(t *testing.T) {
	bookmarks := []places.Bookmark{
		{GUID: "b1", Title: "First", URL: "https://ex.com"},
		{GUID: "b2", Title: "Second", URL: "https://ex.com"},
	}
	items := Build(bookmarks, nil, nil, testDefaults, false)
	if len(items) != 1 || items[0].ID != "b1" {
		t.Errorf("items = %+v, want only b1", items)
	}
}
