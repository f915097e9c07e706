package services

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"salonka/internal/domain"
	"salonka/internal/repos"
)

var ErrBadCreds = errors.New("invalid email or password")

// AuthService binds staff logins to the sid session cookie. It is a thin
// collaborator around UserRepo; the stock engine itself never touches it.
type AuthService struct {
	Users *repos.UserRepo
}

// Login checks the password and binds the session to the account. The error
// is the same for an unknown email and a wrong password.
func (s *AuthService) Login(sid, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(strings.TrimSpace(email))
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// Logout unbinds the session; the cookie itself is cleared by the handler.
func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

// CurrentUser resolves a session cookie to its bound account, nil when the
// session is unknown or logged out.
func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}
