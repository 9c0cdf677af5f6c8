package session

import (
	"fmt"
	"path/filepath"
	"testing"

	"papermc/internal/storage"
)

type memSettings map[string]string

func (m memSettings) GetSetting(key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", storage.ErrSettingNotFound, key)
	}
	return v, nil
}

func (m memSettings) SetSetting(key, value string) error {
	m[key] = value
	return nil
}

func (m memSettings) DeleteSetting(key string) error {
	delete(m, key)
	return nil
}

func TestStore_EmptyIsUnauthenticated(t *testing.T) {
	s, err := NewStore(memSettings{})
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if s.Authenticated() {
		t.Error("Expected unauthenticated store without token")
	}
	if !s.Credential().Empty() {
		t.Errorf("Expected empty credential, got %q", s.Credential())
	}
}

func TestStore_SetAndClear(t *testing.T) {
	settings := memSettings{}
	s, _ := NewStore(settings)

	if err := s.Set("admin", "tok"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if !s.Authenticated() || s.Credential() != "tok" {
		t.Errorf("Expected token 'tok', got %q", s.Credential())
	}
	if settings[tokenKey] != "tok" {
		t.Error("Token was not persisted")
	}

	cred := s.Credential()
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if s.Authenticated() {
		t.Error("Expected unauthenticated after Clear")
	}
	if cred != "tok" {
		t.Error("A credential handed out earlier must not change")
	}
	if _, ok := settings[tokenKey]; ok {
		t.Error("Token still persisted after Clear")
	}
	if s.LastUsername() != "admin" {
		t.Errorf("Expected username to survive logout, got %q", s.LastUsername())
	}
}

func TestStore_LoadsPersistedToken(t *testing.T) {
	store, err := storage.NewGormStore(filepath.Join(t.TempDir(), "client.db"))
	if err != nil {
		t.Fatalf("NewGormStore failed: %v", err)
	}
	defer store.Close()

	first, _ := NewStore(store)
	first.Set("ops", "persisted")

	second, err := NewStore(store)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if second.Credential() != "persisted" {
		t.Errorf("Expected persisted token, got %q", second.Credential())
	}
	if second.LastUsername() != "ops" {
		t.Errorf("Expected persisted username, got %q", second.LastUsername())
	}
}
