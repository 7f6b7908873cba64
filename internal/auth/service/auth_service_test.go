package service

import (
	"testing"

	"github.com/rawthreads/storefront/internal/auth/session"
	"github.com/stretchr/testify/assert"
)

func newTestService() (AuthService, *session.Store) {
	sessions := session.NewStore()
	svc := NewAuthService(Credentials{Username: "admin", Password: "secret"}, sessions)
	return svc, sessions
}

func TestAuthService_Login(t *testing.T) {
	svc, sessions := newTestService()

	t.Run("Successful login issues a live token", func(t *testing.T) {
		token, err := svc.Login("admin", "secret")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.True(t, sessions.Check(token))
	})

	t.Run("Wrong password", func(t *testing.T) {
		token, err := svc.Login("admin", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Empty(t, token)
	})

	t.Run("Wrong username yields the same error", func(t *testing.T) {
		_, errUser := svc.Login("nobody", "secret")
		_, errPass := svc.Login("admin", "nope")
		assert.Equal(t, errUser, errPass)
	})
}

func TestAuthService_LogoutRevokesToken(t *testing.T) {
	svc, _ := newTestService()

	token, err := svc.Login("admin", "secret")
	assert.NoError(t, err)
	assert.True(t, svc.Verify(token))

	svc.Logout(token)
	assert.False(t, svc.Verify(token))

	// Idempotent.
	svc.Logout(token)
	assert.False(t, svc.Verify(token))
}
