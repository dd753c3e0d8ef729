// Package catalog builds and publishes the searchable item set derived
// from Firefox bookmarks and history.
package catalog

// ActionKind identifies one of the two fixed per-item actions.
type ActionKind string

// The fixed action set: every item offers exactly these two.
const (
	ActionOpen ActionKind = "open"
	ActionCopy ActionKind = "copy"
)

// Action is a small value-holding command. It carries the URL it acts on
// directly, so executing it never depends on captured loop state.
type Action struct {
	Kind  ActionKind `json:"kind"`
	Label string     `json:"label"`
	URL   string     `json:"-"`
}

// Item is one searchable, actionable entry in the published catalog.
// Items are constructed once per rebuild and never mutated afterwards.
type Item struct {
	ID         string   `json:"id"`
	Text       string   `json:"text"`
	Subtext    string   `json:"subtext"`
	URL        string   `json:"url"`
	IconURLs   []string `json:"icon_urls"`
	SearchText string   `json:"search_text"`
	Actions    []Action `json:"actions"`
}

func itemActions(url string) []Action {
	return []Action{
		{Kind: ActionOpen, Label: "Open in Firefox", URL: url},
		{Kind: ActionCopy, Label: "Copy URL", URL: url},
	}
}
