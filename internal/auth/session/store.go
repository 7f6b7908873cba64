package session

import (
	"sync"

	"github.com/google/uuid"
)

// Store is the live set of admin tokens. Tokens are opaque, carry no claims,
// and exist only for the lifetime of the process: issued on login, removed on
// logout. There is no expiry.
type Store struct {
	mu     sync.RWMutex
	tokens map[string]struct{}
}

func NewStore() *Store {
	return &Store{tokens: make(map[string]struct{})}
}

// Issue mints a new token and adds it to the live set.
func (s *Store) Issue() string {
	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = struct{}{}
	s.mu.Unlock()
	return token
}

// Check reports whether the token is currently live.
func (s *Store) Check(token string) bool {
	s.mu.RLock()
	_, ok := s.tokens[token]
	s.mu.RUnlock()
	return ok
}

// Revoke removes the token. Revoking an unknown token is a no-op.
func (s *Store) Revoke(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}
