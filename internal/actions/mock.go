package actions

import "sync"

// Mock records action invocations for tests. It satisfies both Browser
// and Clipboard.
type Mock struct {
	mu        sync.Mutex
	Opened    []string
	Clipboard []string
}

// Open records the URL instead of launching a browser.
func (m *Mock) Open(url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Opened = append(m.Opened, url)
	return nil
}

// Write records the text instead of touching the system clipboard.
func (m *Mock) Write(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Clipboard = append(m.Clipboard, text)
	return nil
}

// LastCopied returns the most recently copied text, or "".
func (m *Mock) LastCopied() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Clipboard) == 0 {
		return ""
	}
	return m.Clipboard[len(m.Clipboard)-1]
}
