package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"todo-api/internal/domain"
)

// TodoRepository defines owner-scoped todo data operations. Every method
// takes the creator's id; no call can see or touch another user's records.
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) error
	FindOwned(ctx context.Context, id, creatorID string) (*domain.Todo, error)
	ListByCreator(ctx context.Context, creatorID string) ([]domain.Todo, error)
	// UpdateOwned applies fields in a single conditional UPDATE ... RETURNING
	// and returns the post-update record.
	UpdateOwned(ctx context.Context, id, creatorID string, fields map[string]interface{}) (*domain.Todo, error)
	// DeleteOwned removes the owned record and returns it, atomically.
	DeleteOwned(ctx context.Context, id, creatorID string) (*domain.Todo, error)
}

type gormTodoRepository struct {
	db *gorm.DB
}

// NewGormTodoRepository creates a new GORM todo repository.
func NewGormTodoRepository(db *gorm.DB) TodoRepository {
	return &gormTodoRepository{db: db}
}

func (r *gormTodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	if todo.ID == "" {
		todo.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(todo).Error; err != nil {
		return fmt.Errorf("inserting todo: %w", err)
	}
	return nil
}

func (r *gormTodoRepository) FindOwned(ctx context.Context, id, creatorID string) (*domain.Todo, error) {
	var todo domain.Todo
	err := r.db.WithContext(ctx).
		Where("id = ? AND creator_id = ?", id, creatorID).
		First(&todo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("finding todo: %w", err)
	}
	return &todo, nil
}

func (r *gormTodoRepository) ListByCreator(ctx context.Context, creatorID string) ([]domain.Todo, error) {
	var todos []domain.Todo
	err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at ASC").
		Find(&todos).Error
	if err != nil {
		return nil, fmt.Errorf("listing todos: %w", err)
	}
	return todos, nil
}

func (r *gormTodoRepository) UpdateOwned(ctx context.Context, id, creatorID string, fields map[string]interface{}) (*domain.Todo, error) {
	var todo domain.Todo
	result := r.db.WithContext(ctx).
		Model(&todo).
		Clauses(clause.Returning{}).
		Where("id = ? AND creator_id = ?", id, creatorID).
		Updates(fields)
	if result.Error != nil {
		return nil, fmt.Errorf("updating todo: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}
	return &todo, nil
}

func (r *gormTodoRepository) DeleteOwned(ctx context.Context, id, creatorID string) (*domain.Todo, error) {
	var todo domain.Todo
	result := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("id = ? AND creator_id = ?", id, creatorID).
		Delete(&todo)
	if result.Error != nil {
		return nil, fmt.Errorf("deleting todo: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}
	return &todo, nil
}
