package services

import (
	"errors"
	"fmt"

	"farmstand/internal/domain"
	"farmstand/internal/repos"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrBadCreds = errors.New("invalid email or password")

type AuthService struct {
	Users *repos.UserRepo
}

// Register creates an account. Duplicate emails surface as domain.ErrConflict
// from the unique index.
func (s *AuthService) Register(name, email, password, phone string, role domain.Role) (*domain.User, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:    uuid.NewString(),
		Email: email,
		Name:  name,
		Hash:  string(h),
		Phone: phone,
		Role:  role,
	}
	if err := s.Users.Create(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Login(sid, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(email)
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

// FederatedLogin is the identity contract for OAuth sign-in: the provider has
// already verified the email, so a first login creates a verified buyer and a
// repeat login returns the existing account. Flow mechanics live elsewhere.
func (s *AuthService) FederatedLogin(sid, email, name string) (*domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		u = &domain.User{
			ID:       uuid.NewString(),
			Email:    email,
			Name:     name,
			Hash:     fmt.Sprintf("oauth:%s", uuid.NewString()), // never matches a password
			Role:     domain.RoleBuyer,
			Verified: true,
		}
		if err := s.Users.Create(u); err != nil {
			return nil, err
		}
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteAccount removes the account and everything it owns. Orders stay for
// the audit trail, marked canceled.
func (s *AuthService) DeleteAccount(userID string) error {
	return s.Users.DeleteCascade(userID)
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}
