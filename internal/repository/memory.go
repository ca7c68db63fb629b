package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"todo-api/internal/domain"
)

// In-memory implementations of the repository interfaces. They back the
// service and HTTP tests so those suites need no running database.

type memoryTodoRepository struct {
	mu    sync.RWMutex
	todos []domain.Todo
}

// NewMemoryTodoRepository returns a TodoRepository backed by a slice, which
// preserves insertion order the way the postgres repository's created_at
// ordering does.
func NewMemoryTodoRepository() TodoRepository {
	return &memoryTodoRepository{}
}

func (r *memoryTodoRepository) Create(_ context.Context, todo *domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if todo.ID == "" {
		todo.ID = uuid.NewString()
	}
	r.todos = append(r.todos, *todo)
	return nil
}

func (r *memoryTodoRepository) FindOwned(_ context.Context, id, creatorID string) (*domain.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.todos {
		if r.todos[i].ID == id && r.todos[i].CreatorID == creatorID {
			t := r.todos[i]
			return &t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryTodoRepository) ListByCreator(_ context.Context, creatorID string) ([]domain.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Todo
	for _, t := range r.todos {
		if t.CreatorID == creatorID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memoryTodoRepository) UpdateOwned(_ context.Context, id, creatorID string, fields map[string]interface{}) (*domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.todos {
		if r.todos[i].ID != id || r.todos[i].CreatorID != creatorID {
			continue
		}
		if v, ok := fields["text"]; ok {
			r.todos[i].Text = v.(string)
		}
		if v, ok := fields["completed"]; ok {
			r.todos[i].Completed = v.(bool)
		}
		if v, ok := fields["completed_at"]; ok {
			if v == nil {
				r.todos[i].CompletedAt = nil
			} else {
				ts := v.(time.Time)
				r.todos[i].CompletedAt = &ts
			}
		}
		t := r.todos[i]
		return &t, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memoryTodoRepository) DeleteOwned(_ context.Context, id, creatorID string) (*domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.todos {
		if r.todos[i].ID == id && r.todos[i].CreatorID == creatorID {
			t := r.todos[i]
			r.todos = append(r.todos[:i], r.todos[i+1:]...)
			return &t, nil
		}
	}
	return nil, domain.ErrNotFound
}

type memoryUserRepository struct {
	mu     sync.RWMutex
	users  map[string]domain.User // keyed by id
	tokens []domain.AuthToken
}

// NewMemoryUserRepository returns a UserRepository backed by maps.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{users: make(map[string]domain.User)}
}

func (r *memoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryUserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[id]; ok {
		user := u
		return &user, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memoryUserRepository) AppendToken(_ context.Context, token *domain.AuthToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens = append(r.tokens, *token)
	return nil
}

func (r *memoryUserRepository) HasToken(_ context.Context, userID, value, purpose string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.tokens {
		if t.UserID == userID && t.Value == value && t.Purpose == purpose {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryUserRepository) RemoveToken(_ context.Context, userID, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, t := range r.tokens {
		if t.UserID == userID && t.Value == value {
			r.tokens = append(r.tokens[:i], r.tokens[i+1:]...)
			return nil
		}
	}
	return nil
}
