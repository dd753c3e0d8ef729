package settings

import (
	"testing"
)

func TestOpen_MissingFileYieldsDefaults(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	snap := s.Snapshot()
	if snap.ProfilePath != "" || snap.IndexHistory {
		t.Errorf("defaults = %+v", snap)
	}
}

func TestUpdate_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	got, err := s.Update(func(v *Settings) {
		v.ProfilePath = "abc.default"
		v.IndexHistory = true
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.ProfilePath != "abc.default" || !got.IndexHistory {
		t.Errorf("updated snapshot = %+v", got)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if snap := reopened.Snapshot(); snap != got {
		t.Errorf("reloaded = %+v, want %+v", snap, got)
	}
}

func TestNormalize_ResetsMissingProfile(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := s.Update(func(v *Settings) { v.ProfilePath = "gone.profile" }); err != nil {
		t.Fatalf("Update: %v", err)
	}

	snap, changed, err := s.Normalize([]string{"first.default", "second.default"})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !changed || snap.ProfilePath != "first.default" {
		t.Errorf("Normalize = %+v changed=%v, want reset to first.default", snap, changed)
	}

	// The reset must be persisted, not just in memory.
	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := reopened.Snapshot().ProfilePath; got != "first.default" {
		t.Errorf("persisted profile = %q", got)
	}
}

func TestNormalize_KeepsValidProfile(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := s.Update(func(v *Settings) { v.ProfilePath = "keep.me" }); err != nil {
		t.Fatalf("Update: %v", err)
	}

	snap, changed, err := s.Normalize([]string{"other", "keep.me"})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if changed || snap.ProfilePath != "keep.me" {
		t.Errorf("Normalize = %+v changed=%v, want unchanged", snap, changed)
	}
}

func TestNormalize_NoProfilesIsNoop(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := s.Update(func(v *Settings) { v.ProfilePath = "stale" }); err != nil {
		t.Fatalf("Update: %v", err)
	}

	snap, changed, err := s.Normalize(nil)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if changed || snap.ProfilePath != "stale" {
		t.Errorf("Normalize with no profiles = %+v changed=%v", snap, changed)
	}
}
