package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"todo-api/internal/domain"
)

// UserRepository defines user account and token-list data operations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	AppendToken(ctx context.Context, token *domain.AuthToken) error
	HasToken(ctx context.Context, userID, value, purpose string) (bool, error)
	// RemoveToken deletes the matching token row. Removing a token that is
	// already gone is not an error.
	RemoveToken(ctx context.Context, userID, value string) error
}

type gormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM user repository.
func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("finding user by email: %w", err)
	}
	return &user, nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("finding user by id: %w", err)
	}
	return &user, nil
}

func (r *gormUserRepository) AppendToken(ctx context.Context, token *domain.AuthToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("appending token: %w", err)
	}
	return nil
}

func (r *gormUserRepository) HasToken(ctx context.Context, userID, value, purpose string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.AuthToken{}).
		Where("user_id = ? AND value = ? AND purpose = ?", userID, value, purpose).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking token: %w", err)
	}
	return count > 0, nil
}

func (r *gormUserRepository) RemoveToken(ctx context.Context, userID, value string) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND value = ?", userID, value).
		Delete(&domain.AuthToken{}).Error
	if err != nil {
		return fmt.Errorf("removing token: %w", err)
	}
	return nil
}
