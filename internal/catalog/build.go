package catalog

import (
	"strings"

	"github.com/starford/foxdex/internal/favicon"
	"github.com/starford/foxdex/internal/places"
)

// themeIcon is the generic OS-theme icon hint supplied alongside every
// file-based icon reference so the host can pick whichever it can render.
const themeIcon = "xdg:firefox"

// Build assembles the item set for one rebuild. Bookmarks come first in
// store order, then history entries (when includeHistory is set), also in
// store order. URLs are globally unique across the combined set: the first
// occurrence wins, so a URL present in both groups keeps its bookmark item
// and the history row is silently dropped.
//
// icons maps bookmark guid to a materialized favicon path; bookmarks
// without an entry fall back to the bundled bookmark icon. History items
// always use the bundled history icon.
func Build(bookmarks []places.Bookmark, history []places.HistoryEntry, icons map[string]string, defaults favicon.Defaults, includeHistory bool) []Item {
	seen := make(map[string]struct{}, len(bookmarks))
	items := make([]Item, 0, len(bookmarks))

	for _, b := range bookmarks {
		if _, dup := seen[b.URL]; dup {
			continue
		}
		seen[b.URL] = struct{}{}

		iconPath := defaults.Bookmark
		if p, ok := icons[b.GUID]; ok {
			iconPath = p
		}
		items = append(items, newItem(b.GUID, b.Title, b.URL, iconPath))
	}

	if includeHistory {
		for _, h := range history {
			if _, dup := seen[h.URL]; dup {
				continue
			}
			seen[h.URL] = struct{}{}
			items = append(items, newItem(h.GUID, h.Title, h.URL, defaults.History))
		}
	}

	return items
}

func newItem(guid, title, url, iconPath string) Item {
	text := title
	if text == "" {
		text = url
	}
	return Item{
		ID:      guid,
		Text:    text,
		Subtext: url,
		URL:     url,
		// Fallback/file icon first, theme hint second; the order is part
		// of the contract with the host renderer.
		IconURLs: []string{"file:" + iconPath, themeIcon},
		// The leading space for an empty title is kept; query matching is
		// whitespace-tolerant.
		SearchText: strings.ToLower(title + " " + url),
		Actions:    itemActions(url),
	}
}
