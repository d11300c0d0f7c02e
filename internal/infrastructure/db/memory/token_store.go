// Package memory holds the in-process token store used in development and
// tests. Tokens do not survive a restart.
package memory

import (
	"context"
	"sync"

	"github.com/snapboard/webclient/internal/core/ports"
)

type TokenStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func NewTokenStore() *TokenStore {
	return &TokenStore{tokens: make(map[string]string)}
}

var _ ports.TokenStore = (*TokenStore)(nil)

func (s *TokenStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[key]
	if !ok {
		return "", ports.ErrNoToken
	}
	return token, nil
}

func (s *TokenStore) Set(_ context.Context, key, token string) error {
	s.mu.Lock()
	s.tokens[key] = token
	s.mu.Unlock()
	return nil
}

func (s *TokenStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.tokens, key)
	s.mu.Unlock()
	return nil
}

// Len reports how many tokens are stored.
func (s *TokenStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}
