// Package service contains the business logic layer: it validates input,
// enforces the account and chat rules, and orchestrates the repositories.
// Handlers stay HTTP-only, repositories stay SQL-only.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Rakabidaasta/npc-hackaton/internal/apperror"
	"github.com/Rakabidaasta/npc-hackaton/internal/auth"
	"github.com/Rakabidaasta/npc-hackaton/internal/model"
	"github.com/Rakabidaasta/npc-hackaton/internal/repository"
)

// AuthService handles signup, login, and session-to-user resolution.
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	sessions  *auth.SessionService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	sessions *auth.SessionService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		passwords: passwords,
		sessions:  sessions,
		logger:    logger,
	}
}

// compile-time check that *AuthService satisfies the middleware's loader
var _ auth.UserLoader = (*AuthService)(nil)

// Signup validates the form input, hashes the password, and creates the
// account.
//
// The repository's unique index is the authoritative duplicate check; the
// GetByEmail lookup before the insert only exists to answer the common case
// without burning an insert attempt. If two signups race, the loser of the
// insert still gets the same apperror.ErrConflict.
func (s *AuthService) Signup(ctx context.Context, email, name, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	name = strings.TrimSpace(name)

	if email == "" || !strings.Contains(email, "@") {
		return nil, apperror.ValidationFailed("email", "a valid email is required")
	}
	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict("a user with this email already exists")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: checking email %s: %w", email, err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", "password must be 72 bytes or fewer")
	}

	user := &model.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("service/auth: creating user %s: %w", email, err)
	}

	s.logger.Info("user signed up",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// errInvalidCredentials is the single error both failure modes of Login map
// to. A caller cannot tell an unknown email from a wrong password, which
// keeps the login form from being used to enumerate accounts.
func errInvalidCredentials() *apperror.AppError {
	return apperror.Unauthorized("invalid email or password")
}

// Login verifies the credentials and, on success, issues a session token
// for the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, "", errInvalidCredentials()
		}
		return nil, "", fmt.Errorf("service/auth: looking up %s: %w", email, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, "", errInvalidCredentials()
	}

	token, err := s.sessions.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("service/auth: issuing session for %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return user, token, nil
}

// LoadUser resolves a validated session's user ID to the full user record.
// Called by the auth middleware on every authenticated request; a not-found
// result means the session references a deleted user and the request is
// treated as unauthenticated.
func (s *AuthService) LoadUser(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.Unauthorized("no user in session")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/auth: loading session user %s: %w", id, err)
	}

	return user, nil
}
