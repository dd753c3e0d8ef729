// Package settings persists the user-adjustable runtime settings in the
// data directory.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

const fileName = "settings.yaml"

// Settings are the persisted user preferences. IndexHistory defaults to
// false; ProfilePath must be one of the discovered profiles (see Normalize).
type Settings struct {
	ProfilePath  string `yaml:"current_profile_path" json:"current_profile_path"`
	IndexHistory bool   `yaml:"index_history" json:"index_history"`
}

// Store loads and saves Settings, guarding concurrent access. The rebuild
// pipeline reads a Snapshot at execution start; API handlers Update.
type Store struct {
	path string

	mu  sync.RWMutex
	cur Settings
}

// Open loads settings from the data directory, creating the directory if
// needed. A missing settings file yields the zero defaults.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("settings: create data dir: %w", err)
	}
	s := &Store{path: filepath.Join(dataDir, fileName)}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("settings: read: %w", err)
	}
	if err := yaml.Unmarshal(data, &s.cur); err != nil {
		return nil, fmt.Errorf("settings: parse: %w", err)
	}
	return s, nil
}

// Snapshot returns the current settings by value.
func (s *Store) Snapshot() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Update applies fn to the settings and persists the result. It returns
// the new snapshot.
func (s *Store) Update(fn func(*Settings)) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.cur
	fn(&next)
	if err := s.save(next); err != nil {
		return s.cur, err
	}
	s.cur = next
	return next, nil
}

// Normalize resets the profile path to the first discovered profile when
// the stored one is no longer among them. It reports whether a change was
// persisted. With no profiles discovered, the settings are left alone.
func (s *Store) Normalize(profiles []string) (Settings, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(profiles) == 0 {
		return s.cur, false, nil
	}
	for _, p := range profiles {
		if p == s.cur.ProfilePath {
			return s.cur, false, nil
		}
	}
	next := s.cur
	next.ProfilePath = profiles[0]
	if err := s.save(next); err != nil {
		return s.cur, false, err
	}
	s.cur = next
	return next, true, nil
}

func (s *Store) save(v Settings) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("settings: marshal: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("settings: write: %w", err)
	}
	return nil
}
