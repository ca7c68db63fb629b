package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"todo-api/internal/domain"
	"todo-api/internal/repository"
)

// CreateTodoRequest holds the data needed to create a new todo.
type CreateTodoRequest struct {
	Text string `json:"text"`
}

// UpdateTodoRequest is the typed patch for a todo. Only text and completed
// are patchable; ownership and identifier can never be overwritten. Pointers
// distinguish an omitted field from its zero value.
type UpdateTodoRequest struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}

// TodoService performs ownership-scoped todo operations. The user argument
// is always the authenticated caller; no operation can reach records owned
// by anyone else.
type TodoService interface {
	Create(ctx context.Context, user *domain.User, req CreateTodoRequest) (*domain.Todo, error)
	ListOwned(ctx context.Context, user *domain.User) ([]domain.Todo, error)
	GetOwned(ctx context.Context, user *domain.User, id string) (*domain.Todo, error)
	UpdateOwned(ctx context.Context, user *domain.User, id string, req UpdateTodoRequest) (*domain.Todo, error)
	DeleteOwned(ctx context.Context, user *domain.User, id string) (*domain.Todo, error)
}

type todoService struct {
	repo repository.TodoRepository
	log  *slog.Logger
}

// NewTodoService creates a new TodoService backed by repo.
func NewTodoService(repo repository.TodoRepository, log *slog.Logger) TodoService {
	return &todoService{repo: repo, log: log}
}

func (s *todoService) Create(ctx context.Context, user *domain.User, req CreateTodoRequest) (*domain.Todo, error) {
	if req.Text == "" {
		return nil, fmt.Errorf("%w: text is required", domain.ErrValidation)
	}

	todo := &domain.Todo{
		Text:      req.Text,
		Completed: false,
		CreatorID: user.ID,
	}
	if err := s.repo.Create(ctx, todo); err != nil {
		s.log.Error("creating todo", "error", err, "user_id", user.ID)
		return nil, err
	}
	return todo, nil
}

func (s *todoService) ListOwned(ctx context.Context, user *domain.User) ([]domain.Todo, error) {
	todos, err := s.repo.ListByCreator(ctx, user.ID)
	if err != nil {
		s.log.Error("listing todos", "error", err, "user_id", user.ID)
		return nil, err
	}
	return todos, nil
}

func (s *todoService) GetOwned(ctx context.Context, user *domain.User, id string) (*domain.Todo, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.repo.FindOwned(ctx, id, user.ID)
}

func (s *todoService) UpdateOwned(ctx context.Context, user *domain.User, id string, req UpdateTodoRequest) (*domain.Todo, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Text != nil {
		fields["text"] = *req.Text
	}
	// An explicit completed=true is the only way to mark a todo complete.
	// Anything else (false or omitted) resets completion.
	if req.Completed != nil && *req.Completed {
		fields["completed"] = true
		fields["completed_at"] = time.Now()
	} else {
		fields["completed"] = false
		fields["completed_at"] = nil
	}

	return s.repo.UpdateOwned(ctx, id, user.ID, fields)
}

func (s *todoService) DeleteOwned(ctx context.Context, user *domain.User, id string) (*domain.Todo, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.repo.DeleteOwned(ctx, id, user.ID)
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrInvalidID
	}
	return nil
}
