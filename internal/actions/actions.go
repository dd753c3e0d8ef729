// Package actions executes the two per-item actions: opening a URL in the
// default browser and copying a URL to the system clipboard.
package actions

// Browser opens URLs in the user's default browser.
type Browser interface {
	Open(url string) error
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	Write(text string) error
}
