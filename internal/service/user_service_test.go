package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"todo-api/internal/auth"
	"todo-api/internal/domain"
	"todo-api/internal/repository"
)

func newAccountService() AccountService {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	codec := auth.NewCodec([]byte("test-secret"), 0)
	return NewAccountService(repository.NewMemoryUserRepository(), codec, log)
}

func TestRegister_HashesPassword(t *testing.T) {
	t.Parallel()
	svc := newAccountService()

	user, err := svc.Register(context.Background(), "a@b.com", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)

	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()
	svc := newAccountService()

	_, err := svc.Register(context.Background(), "not-an-email", "secret123")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Register(context.Background(), "a@b.com", "short")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()
	svc := newAccountService()

	_, err := svc.Register(context.Background(), "a@b.com", "secret123")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "a@b.com", "different123")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()
	svc := newAccountService()

	registered, err := svc.Register(context.Background(), "a@b.com", "secret123")
	require.NoError(t, err)

	user, err := svc.Authenticate(context.Background(), "a@b.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	// Wrong password and unknown email are indistinguishable.
	_, err = svc.Authenticate(context.Background(), "a@b.com", "wrongpass")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "nobody@b.com", "secret123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestIssueTokenAndResolve(t *testing.T) {
	t.Parallel()
	svc := newAccountService()

	user, err := svc.Register(context.Background(), "a@b.com", "secret123")
	require.NoError(t, err)

	token, err := svc.IssueToken(context.Background(), user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	resolved, err := svc.ResolveByToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
}

func TestResolveByToken_NeverCrossesUsers(t *testing.T) {
	t.Parallel()
	svc := newAccountService()

	userA, err := svc.Register(context.Background(), "a@b.com", "secret123")
	require.NoError(t, err)
	userB, err := svc.Register(context.Background(), "b@b.com", "secret123")
	require.NoError(t, err)

	tokenA, err := svc.IssueToken(context.Background(), userA)
	require.NoError(t, err)
	_, err = svc.IssueToken(context.Background(), userB)
	require.NoError(t, err)

	resolved, err := svc.ResolveByToken(context.Background(), tokenA)
	require.NoError(t, err)
	assert.Equal(t, userA.ID, resolved.ID)
	assert.NotEqual(t, userB.ID, resolved.ID)
}

func TestResolveByToken_RevokedTokenRejected(t *testing.T) {
	t.Parallel()
	svc := newAccountService()

	user, err := svc.Register(context.Background(), "a@b.com", "secret123")
	require.NoError(t, err)
	token, err := svc.IssueToken(context.Background(), user)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeToken(context.Background(), user, token))

	// The signature still verifies but the token is gone from the list.
	_, err = svc.ResolveByToken(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestRevokeToken_Idempotent(t *testing.T) {
	t.Parallel()
	svc := newAccountService()

	user, err := svc.Register(context.Background(), "a@b.com", "secret123")
	require.NoError(t, err)
	token, err := svc.IssueToken(context.Background(), user)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeToken(context.Background(), user, token))
	assert.NoError(t, svc.RevokeToken(context.Background(), user, token))
	assert.NoError(t, svc.RevokeToken(context.Background(), user, "never-issued"))
}

func TestResolveByToken_UnknownUser(t *testing.T) {
	t.Parallel()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	codec := auth.NewCodec([]byte("test-secret"), 0)
	svc := NewAccountService(repository.NewMemoryUserRepository(), codec, log)

	// A validly signed token for a user that was never persisted.
	token, err := codec.Issue("00000000-0000-0000-0000-000000000000", domain.TokenPurposeAuth)
	require.NoError(t, err)

	_, err = svc.ResolveByToken(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestResolveByToken_WrongPurpose(t *testing.T) {
	t.Parallel()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	codec := auth.NewCodec([]byte("test-secret"), 0)
	repo := repository.NewMemoryUserRepository()
	svc := NewAccountService(repo, codec, log)

	user, err := svc.Register(context.Background(), "a@b.com", "secret123")
	require.NoError(t, err)

	token, err := codec.Issue(user.ID, "reset")
	require.NoError(t, err)

	_, err = svc.ResolveByToken(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
