package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"typist/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create relies on the unique email index; a duplicate yields ErrIntegrity.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return fmt.Errorf("check user email failed: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("create user: email %q already registered: %w", user.Email, ErrIntegrity)
		}
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("create user failed: %w", translate(err))
		}
		return nil
	})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, fmt.Errorf("query user by email failed: %w", translate(err))
	}
	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, fmt.Errorf("query user by id failed: %w", translate(err))
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context, page Page) ([]model.User, error) {
	page = page.normalize()
	var users []model.User
	if err := r.db.WithContext(ctx).Order("id ASC").Offset(page.Offset).Limit(page.Limit).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users failed: %w", err)
	}
	return users, nil
}

// Update saves every column of the user, bumping updated_date.
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Where("email = ? AND id <> ?", user.Email, user.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("check user email failed: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("update user: email %q already registered: %w", user.Email, ErrIntegrity)
		}
		var current model.User
		if err := tx.First(&current, user.ID).Error; err != nil {
			return fmt.Errorf("update user %d failed: %w", user.ID, translate(err))
		}
		user.CreatedDate = current.CreatedDate
		if err := tx.Model(user).Select("*").Omit("id", "created_date").Updates(user).Error; err != nil {
			return fmt.Errorf("update user %d failed: %w", user.ID, translate(err))
		}
		return nil
	})
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.User{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete user %d failed: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete user %d failed: %w", id, ErrNotFound)
	}
	return nil
}
