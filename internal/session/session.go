// Package session holds the admin bearer token and persists it between runs.
package session

import (
	"fmt"
	"sync"
)

// TokenKey is the storage key of the admin session token.
const TokenKey = "admin_session_token"

// Store is a small key/value persistence backend.
type Store interface {
	Load(key string) (string, error)
	Save(key, value string) error
	Delete(key string) error
}

// Session is the only state shared between the admin components. Writers are
// login and logout; the last writer wins.
type Session struct {
	mu    sync.RWMutex
	store Store
	token string
}

// Open restores the session token from store.
func Open(store Store) (*Session, error) {
	if store == nil {
		store = NewMemoryStore()
	}
	token, err := store.Load(TokenKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &Session{store: store, token: token}, nil
}

// Token returns the current bearer token, or "".
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a token is held.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Set stores a new token and persists it.
func (s *Session) Set(token string) error {
	if token == "" {
		return s.Clear()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	if err := s.store.Save(TokenKey, token); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// Clear forgets the token. The in-memory token is cleared even if the store fails.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	if err := s.store.Delete(TokenKey); err != nil {
		return fmt.Errorf("failed to clear persisted session: %w", err)
	}
	return nil
}
