package catalog

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/starford/foxdex/internal/checksum"
)

// generation is one immutable published item set.
type generation struct {
	items   []Item
	byID    map[string]int
	sum     string
	builtAt time.Time
}

// Set holds the currently published item generation. Replace swaps the
// whole generation atomically; readers holding the previous slice are
// unaffected and no reader ever observes a partially built set.
type Set struct {
	cur atomic.Pointer[generation]
}

// NewSet creates an empty published set.
func NewSet() *Set {
	s := &Set{}
	s.cur.Store(newGeneration(nil))
	return s
}

func newGeneration(items []Item) *generation {
	byID := make(map[string]int, len(items))
	var b strings.Builder
	for i, it := range items {
		byID[it.ID] = i
		b.WriteString(it.ID)
		b.WriteByte(0)
		b.WriteString(it.URL)
		b.WriteByte(0)
	}
	return &generation{
		items:   items,
		byID:    byID,
		sum:     checksum.Sum([]byte(b.String())),
		builtAt: time.Now(),
	}
}

// Replace publishes a new generation and returns its checksum.
func (s *Set) Replace(items []Item) string {
	g := newGeneration(items)
	s.cur.Store(g)
	return g.sum
}

// Items returns the published items. Callers must not mutate the slice.
func (s *Set) Items() []Item {
	return s.cur.Load().items
}

// Len returns the number of published items.
func (s *Set) Len() int {
	return len(s.cur.Load().items)
}

// Checksum returns the content checksum of the published generation,
// usable as an HTTP ETag.
func (s *Set) Checksum() string {
	return s.cur.Load().sum
}

// BuiltAt returns when the published generation was built.
func (s *Set) BuiltAt() time.Time {
	return s.cur.Load().builtAt
}

// Get returns the published item with the given id.
func (s *Set) Get(id string) (Item, bool) {
	g := s.cur.Load()
	i, ok := g.byID[id]
	if !ok {
		return Item{}, false
	}
	return g.items[i], true
}

// Search returns up to limit items whose search text contains every
// whitespace-separated term of query (case-insensitive). Matching is a
// plain substring check; ranking is the host's job, not ours, so published
// order is preserved.
func (s *Set) Search(query string, limit int) []Item {
	if limit <= 0 {
		limit = 50
	}
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil
	}

	var out []Item
	for _, it := range s.cur.Load().items {
		if matchesAll(it.SearchText, terms) {
			out = append(out, it)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

func matchesAll(text string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(text, t) {
			return false
		}
	}
	return true
}
