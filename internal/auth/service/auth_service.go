package service

import (
	"errors"

	"github.com/rawthreads/storefront/internal/auth/session"
)

// ErrInvalidCredentials deliberately does not say which of the two fields
// was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Credentials are the configured admin username and password, compared as
// plain strings. Single-admin scope; no hashing or lockout.
type Credentials struct {
	Username string
	Password string
}

type AuthService interface {
	Login(username, password string) (string, error)
	Logout(token string)
	Verify(token string) bool
}

type authServiceImpl struct {
	creds    Credentials
	sessions *session.Store
}

func NewAuthService(creds Credentials, sessions *session.Store) AuthService {
	return &authServiceImpl{creds: creds, sessions: sessions}
}

func (s *authServiceImpl) Login(username, password string) (string, error) {
	if username != s.creds.Username || password != s.creds.Password {
		return "", ErrInvalidCredentials
	}
	return s.sessions.Issue(), nil
}

func (s *authServiceImpl) Logout(token string) {
	s.sessions.Revoke(token)
}

func (s *authServiceImpl) Verify(token string) bool {
	return s.sessions.Check(token)
}
