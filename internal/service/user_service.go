package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"

	"golang.org/x/crypto/bcrypt"

	"todo-api/internal/auth"
	"todo-api/internal/domain"
	"todo-api/internal/repository"
)

const minPasswordLength = 6

// AccountService handles registration, credential checks, and the session
// token lifecycle.
type AccountService interface {
	// Register creates a user with a hashed password and no tokens.
	Register(ctx context.Context, email, password string) (*domain.User, error)

	// Authenticate verifies email+password. Unknown email and wrong password
	// both yield ErrInvalidCredentials, so callers cannot enumerate accounts.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// IssueToken signs a new auth token and appends it to the user's token
	// list.
	IssueToken(ctx context.Context, user *domain.User) (string, error)

	// ResolveByToken maps a presented token back to its user. A token that
	// verifies but has been revoked (absent from the token list) is rejected.
	ResolveByToken(ctx context.Context, token string) (*domain.User, error)

	// RevokeToken removes the token from the user's list. Revoking a token
	// that was already removed succeeds.
	RevokeToken(ctx context.Context, user *domain.User, token string) error
}

type accountService struct {
	users repository.UserRepository
	codec *auth.Codec
	log   *slog.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(users repository.UserRepository, codec *auth.Codec, log *slog.Logger) AccountService {
	return &accountService{users: users, codec: codec, log: log}
}

func (s *accountService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: email is not valid", domain.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, err
		}
		s.log.Error("creating user", "error", err)
		return nil, err
	}
	return user, nil
}

func (s *accountService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *accountService) IssueToken(ctx context.Context, user *domain.User) (string, error) {
	value, err := s.codec.Issue(user.ID, domain.TokenPurposeAuth)
	if err != nil {
		return "", err
	}
	token := &domain.AuthToken{
		UserID:  user.ID,
		Purpose: domain.TokenPurposeAuth,
		Value:   value,
	}
	if err := s.users.AppendToken(ctx, token); err != nil {
		s.log.Error("persisting token", "error", err, "user_id", user.ID)
		return "", err
	}
	return value, nil
}

func (s *accountService) ResolveByToken(ctx context.Context, token string) (*domain.User, error) {
	userID, purpose, err := s.codec.Verify(token)
	if err != nil {
		return nil, err
	}
	if purpose != domain.TokenPurposeAuth {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}

	// The signature alone is not enough: a revoked token verifies but must
	// still be rejected.
	ok, err := s.users.HasToken(ctx, user.ID, token, domain.TokenPurposeAuth)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	return user, nil
}

func (s *accountService) RevokeToken(ctx context.Context, user *domain.User, token string) error {
	return s.users.RemoveToken(ctx, user.ID, token)
}
