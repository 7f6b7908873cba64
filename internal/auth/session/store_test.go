package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_TokenLifecycle(t *testing.T) {
	store := NewStore()

	token := store.Issue()
	assert.NotEmpty(t, token)
	assert.True(t, store.Check(token))

	store.Revoke(token)
	assert.False(t, store.Check(token))

	// Revoking again is a no-op.
	store.Revoke(token)
	assert.False(t, store.Check(token))
}

func TestStore_UnknownToken(t *testing.T) {
	store := NewStore()
	assert.False(t, store.Check("never-issued"))
	store.Revoke("never-issued")
}

func TestStore_IssueUniqueTokens(t *testing.T) {
	store := NewStore()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token := store.Issue()
		assert.False(t, seen[token], "token issued twice: %s", token)
		seen[token] = true
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token := store.Issue()
			assert.True(t, store.Check(token))
			store.Revoke(token)
			assert.False(t, store.Check(token))
		}()
	}
	wg.Wait()
}
