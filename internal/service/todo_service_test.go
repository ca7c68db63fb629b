package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-api/internal/domain"
	"todo-api/internal/repository"
)

func newTodoService() TodoService {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewTodoService(repository.NewMemoryTodoRepository(), log)
}

func testUser(email string) *domain.User {
	return &domain.User{ID: uuid.NewString(), Email: email}
}

func TestCreate_RequiresText(t *testing.T) {
	t.Parallel()
	svc := newTodoService()

	_, err := svc.Create(context.Background(), testUser("a@b.com"), CreateTodoRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreate_DefaultsIncomplete(t *testing.T) {
	t.Parallel()
	svc := newTodoService()
	user := testUser("a@b.com")

	todo, err := svc.Create(context.Background(), user, CreateTodoRequest{Text: "buy milk"})
	require.NoError(t, err)
	assert.NotEmpty(t, todo.ID)
	assert.Equal(t, "buy milk", todo.Text)
	assert.False(t, todo.Completed)
	assert.Nil(t, todo.CompletedAt)
	assert.Equal(t, user.ID, todo.CreatorID)
}

func TestListOwned_OwnershipIsolation(t *testing.T) {
	t.Parallel()
	svc := newTodoService()
	userA := testUser("a@b.com")
	userB := testUser("b@b.com")

	_, err := svc.Create(context.Background(), userA, CreateTodoRequest{Text: "a1"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), userB, CreateTodoRequest{Text: "b1"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), userA, CreateTodoRequest{Text: "a2"})
	require.NoError(t, err)

	todos, err := svc.ListOwned(context.Background(), userA)
	require.NoError(t, err)
	require.Len(t, todos, 2)
	// Insertion order, and never another user's records.
	assert.Equal(t, "a1", todos[0].Text)
	assert.Equal(t, "a2", todos[1].Text)
	for _, todo := range todos {
		assert.Equal(t, userA.ID, todo.CreatorID)
	}
}

func TestGetOwned(t *testing.T) {
	t.Parallel()
	svc := newTodoService()
	userA := testUser("a@b.com")
	userB := testUser("b@b.com")

	created, err := svc.Create(context.Background(), userA, CreateTodoRequest{Text: "a1"})
	require.NoError(t, err)

	got, err := svc.GetOwned(context.Background(), userA, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	// Another user cannot observe the record.
	_, err = svc.GetOwned(context.Background(), userB, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetOwned(context.Background(), userA, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.GetOwned(context.Background(), userA, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateOwned_CompletionPolicy(t *testing.T) {
	t.Parallel()
	svc := newTodoService()
	user := testUser("a@b.com")

	created, err := svc.Create(context.Background(), user, CreateTodoRequest{Text: "task"})
	require.NoError(t, err)

	// Explicit completed=true sets the completion timestamp.
	completed := true
	updated, err := svc.UpdateOwned(context.Background(), user, created.ID, UpdateTodoRequest{Completed: &completed})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	require.NotNil(t, updated.CompletedAt)

	// A patch that omits completed resets completion entirely.
	text := "renamed"
	updated, err = svc.UpdateOwned(context.Background(), user, created.ID, UpdateTodoRequest{Text: &text})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Text)
	assert.False(t, updated.Completed)
	assert.Nil(t, updated.CompletedAt)

	// Explicit completed=false behaves the same as omitted.
	completed = false
	updated, err = svc.UpdateOwned(context.Background(), user, created.ID, UpdateTodoRequest{Completed: &completed})
	require.NoError(t, err)
	assert.False(t, updated.Completed)
	assert.Nil(t, updated.CompletedAt)
}

func TestUpdateOwned_Errors(t *testing.T) {
	t.Parallel()
	svc := newTodoService()
	userA := testUser("a@b.com")
	userB := testUser("b@b.com")

	created, err := svc.Create(context.Background(), userA, CreateTodoRequest{Text: "task"})
	require.NoError(t, err)

	text := "hijacked"
	_, err = svc.UpdateOwned(context.Background(), userB, created.ID, UpdateTodoRequest{Text: &text})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.UpdateOwned(context.Background(), userA, "garbage", UpdateTodoRequest{Text: &text})
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	// The owner's record is untouched by the failed attempts.
	got, err := svc.GetOwned(context.Background(), userA, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "task", got.Text)
}

func TestDeleteOwned(t *testing.T) {
	t.Parallel()
	svc := newTodoService()
	userA := testUser("a@b.com")
	userB := testUser("b@b.com")

	created, err := svc.Create(context.Background(), userA, CreateTodoRequest{Text: "task"})
	require.NoError(t, err)

	// A non-owner's delete fails and never returns the victim record.
	deleted, err := svc.DeleteOwned(context.Background(), userB, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, deleted)

	_, err = svc.DeleteOwned(context.Background(), userA, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.DeleteOwned(context.Background(), userA, "garbage")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	deleted, err = svc.DeleteOwned(context.Background(), userA, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = svc.GetOwned(context.Background(), userA, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
