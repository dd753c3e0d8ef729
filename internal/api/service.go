package api

import (
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/foxdex/internal/actions"
	"github.com/starford/foxdex/internal/apperr"
	"github.com/starford/foxdex/internal/catalog"
	"github.com/starford/foxdex/internal/profile"
	"github.com/starford/foxdex/internal/rebuild"
	"github.com/starford/foxdex/internal/settings"
	"github.com/starford/foxdex/internal/sse"
)

// ErrUnknownAction is returned for an action kind outside the fixed set.
var ErrUnknownAction = errors.New("unknown action")

// ErrUnknownProfile is returned when a settings update names a profile
// that discovery did not find.
var ErrUnknownProfile = errors.New("unknown profile")

// Service coordinates the published catalog, settings, and rebuild
// scheduling for the API layer.
type Service struct {
	set       *catalog.Set
	locator   *profile.Locator
	settings  *settings.Store
	coord     *rebuild.Coordinator
	broker    *sse.Broker
	browser   actions.Browser
	clipboard actions.Clipboard
}

// NewService creates a new API service. broker may be nil.
func NewService(set *catalog.Set, locator *profile.Locator, st *settings.Store, coord *rebuild.Coordinator, broker *sse.Broker, browser actions.Browser, clipboard actions.Clipboard) *Service {
	return &Service{
		set:       set,
		locator:   locator,
		settings:  st,
		coord:     coord,
		broker:    broker,
		browser:   browser,
		clipboard: clipboard,
	}
}

// Items returns the published generation with its checksum and build time.
func (s *Service) Items() ([]catalog.Item, string, time.Time) {
	return s.set.Items(), s.set.Checksum(), s.set.BuiltAt()
}

// Search runs a substring query against the published catalog.
func (s *Service) Search(query string, limit int) []catalog.Item {
	return s.set.Search(query, limit)
}

// Profiles returns the discovered profile paths in registry order.
func (s *Service) Profiles() []string {
	return s.locator.List()
}

// Settings returns the current persisted settings.
func (s *Service) Settings() settings.Settings {
	return s.settings.Snapshot()
}

// UpdateSettings applies the non-nil fields, persists them, publishes a
// settings.updated event, and schedules a rebuild when anything changed.
// A profile path outside the discovered set is rejected.
func (s *Service) UpdateSettings(profilePath *string, indexHistory *bool) (settings.Settings, error) {
	cur := s.settings.Snapshot()

	if profilePath != nil && *profilePath != cur.ProfilePath {
		profiles := s.locator.List()
		known := make([]interface{}, len(profiles))
		for i, p := range profiles {
			known[i] = p
		}
		if err := validation.Validate(*profilePath, validation.In(known...)); err != nil {
			return cur, fmt.Errorf("%w %q: %v", ErrUnknownProfile, *profilePath, err)
		}
	}

	next, err := s.settings.Update(func(v *settings.Settings) {
		if profilePath != nil {
			v.ProfilePath = *profilePath
		}
		if indexHistory != nil {
			v.IndexHistory = *indexHistory
		}
	})
	if err != nil {
		return cur, err
	}

	if next != cur {
		if s.broker != nil {
			s.broker.PublishSettings(next.ProfilePath, next.IndexHistory)
		}
		s.coord.Trigger()
	}
	return next, nil
}

// TriggerRebuild schedules a rebuild and returns immediately.
func (s *Service) TriggerRebuild() {
	s.coord.Trigger()
}

// RunAction executes one of the two fixed actions for a published item.
func (s *Service) RunAction(id string, kind catalog.ActionKind) error {
	item, ok := s.set.Get(id)
	if !ok {
		return fmt.Errorf("item %s: %w", id, apperr.ErrNotFound)
	}
	for _, a := range item.Actions {
		if a.Kind != kind {
			continue
		}
		switch a.Kind {
		case catalog.ActionOpen:
			return s.browser.Open(a.URL)
		case catalog.ActionCopy:
			return s.clipboard.Write(a.URL)
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownAction, kind)
}
