package storage

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	store, err := NewGormStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewGormStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSettings_RoundTrip(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.GetSetting("session.token"); !errors.Is(err, ErrSettingNotFound) {
		t.Fatalf("Expected ErrSettingNotFound, got %v", err)
	}

	if err := store.SetSetting("session.token", "first"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if err := store.SetSetting("session.token", "second"); err != nil {
		t.Fatalf("SetSetting (update) failed: %v", err)
	}

	got, err := store.GetSetting("session.token")
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if got != "second" {
		t.Errorf("Expected 'second', got %q", got)
	}

	if err := store.DeleteSetting("session.token"); err != nil {
		t.Fatalf("DeleteSetting failed: %v", err)
	}
	if _, err := store.GetSetting("session.token"); !errors.Is(err, ErrSettingNotFound) {
		t.Errorf("Expected setting to be gone, got %v", err)
	}
}

func TestSettings_PersistAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")

	store, err := NewGormStore(path)
	if err != nil {
		t.Fatalf("NewGormStore failed: %v", err)
	}
	store.SetSetting("session.username", "admin")
	store.Close()

	reopened, err := NewGormStore(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.GetSetting("session.username")
	if err != nil || got != "admin" {
		t.Errorf("Expected persisted 'admin', got %q (%v)", got, err)
	}
}
