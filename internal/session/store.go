// Package session keeps the one bearer token the client is logged in with.
//
// The token is read once per request through Credential and passed explicitly to
// every network call; nothing else reads it behind the caller's back.
package session

import (
	"errors"
	"sync"

	"papermc/internal/storage"
	"papermc/pkg/sdk"
)

const (
	tokenKey    = "session.token"
	usernameKey = "session.username"
)

// Settings is the slice of storage.GormStore the session needs.
type Settings interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
	DeleteSetting(key string) error
}

type Store struct {
	settings Settings

	mu       sync.RWMutex
	token    sdk.Credential
	username string
}

func NewStore(settings Settings) (*Store, error) {
	s := &Store{settings: settings}

	token, err := settings.GetSetting(tokenKey)
	if err != nil && !errors.Is(err, storage.ErrSettingNotFound) {
		return nil, err
	}
	s.token = sdk.Credential(token)

	username, err := settings.GetSetting(usernameKey)
	if err != nil && !errors.Is(err, storage.ErrSettingNotFound) {
		return nil, err
	}
	s.username = username

	return s, nil
}

func (s *Store) Credential() sdk.Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) Authenticated() bool {
	return !s.Credential().Empty()
}

// LastUsername is the name of the last successful login, for prefilling forms.
func (s *Store) LastUsername() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

func (s *Store) Set(username string, token sdk.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.settings.SetSetting(tokenKey, string(token)); err != nil {
		return err
	}
	if username != "" {
		if err := s.settings.SetSetting(usernameKey, username); err != nil {
			return err
		}
		s.username = username
	}
	s.token = token
	return nil
}

// Clear drops the token, both on logout and on any 401.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	return s.settings.DeleteSetting(tokenKey)
}
