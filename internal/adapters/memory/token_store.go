// Package memory provides in-process adapters used when Redis is not configured.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dietiestates/estates-web/internal/ports"
)

var _ ports.TokenStore = (*TokenStore)(nil)

type entry struct {
	token     string
	expiresAt time.Time
}

// TokenStore keeps access tokens in a map. Tokens are lost on restart.
type TokenStore struct {
	mu     sync.Mutex
	tokens map[string]entry
	now    func() time.Time
}

// NewTokenStore creates an empty in-memory token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{tokens: make(map[string]entry), now: time.Now}
}

// Save stores token for clientID until expiresAt (zero means no expiry).
func (s *TokenStore) Save(_ context.Context, clientID, token string, expiresAt time.Time) error {
	if clientID == "" {
		return errors.New("client ID cannot be empty")
	}
	if token == "" {
		return errors.New("token cannot be empty")
	}
	if !expiresAt.IsZero() && !s.now().Before(expiresAt) {
		return errors.New("token is expired")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[clientID] = entry{token: token, expiresAt: expiresAt}
	return nil
}

// Load returns the stored token or ports.ErrTokenNotFound. Expired entries
// are evicted on read.
func (s *TokenStore) Load(_ context.Context, clientID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.tokens[clientID]
	if !ok {
		return "", ports.ErrTokenNotFound
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.tokens, clientID)
		return "", ports.ErrTokenNotFound
	}
	return e.token, nil
}

// Delete removes the token of clientID.
func (s *TokenStore) Delete(_ context.Context, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, clientID)
	return nil
}
