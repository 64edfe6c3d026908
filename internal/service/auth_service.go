package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/taskdeck/taskdeck/internal/middleware"
	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/repository"
	"github.com/taskdeck/taskdeck/pkg/auth"
)

// ErrNotAuthenticated is returned by every operation that requires a
// session when none is present. The message is the exact string shown
// to the caller.
var ErrNotAuthenticated = errors.New("Not authenticated")

// ErrInvalidCredentials covers unknown email and wrong password alike,
// so a sign-in attempt cannot probe which addresses are registered.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService is the session store: it creates identities, verifies
// credentials, and terminates sessions. Token issuance itself lives in
// pkg/auth; cookie plumbing in the route gate and handlers.
type AuthService struct {
	users     *repository.UserRepository
	passwords *auth.PasswordManager
}

// NewAuthService creates a new authentication service
func NewAuthService(users *repository.UserRepository) *AuthService {
	return &AuthService{
		users:     users,
		passwords: auth.NewPasswordManager(),
	}
}

// SignUp registers a new user after validating the email format and
// password strength.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*models.User, error) {
	if err := auth.ValidateEmail(email); err != nil {
		return nil, err
	}

	hash, err := s.passwords.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, email, hash)
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}

	return user, nil
}

// SignIn verifies the credentials and returns the user.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("sign in: %w", err)
	}

	if err := s.passwords.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// SignOut terminates the current session. A second call without a
// session fails with ErrNotAuthenticated rather than crashing; the
// caller clears the cookies either way.
func (s *AuthService) SignOut(ctx context.Context) error {
	if _, ok := middleware.SessionUserFromContext(ctx); !ok {
		return ErrNotAuthenticated
	}
	return nil
}

// CurrentUser returns the session identity attached to the request
// context by the route gate.
func (s *AuthService) CurrentUser(ctx context.Context) (*middleware.SessionUser, bool) {
	return middleware.SessionUserFromContext(ctx)
}
