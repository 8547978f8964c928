package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"typist/internal/model"
)

type ExcerptRepository struct {
	db *gorm.DB
}

func NewExcerptRepository(db *gorm.DB) *ExcerptRepository {
	return &ExcerptRepository{db: db}
}

func (r *ExcerptRepository) Create(ctx context.Context, excerpt *model.Excerpt) error {
	if err := r.db.WithContext(ctx).Create(excerpt).Error; err != nil {
		return fmt.Errorf("create excerpt failed: %w", translate(err))
	}
	return nil
}

func (r *ExcerptRepository) CreateBatch(ctx context.Context, excerpts []model.Excerpt) error {
	if len(excerpts) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&excerpts).Error; err != nil {
		return fmt.Errorf("create excerpts batch failed: %w", translate(err))
	}
	return nil
}

// List returns every excerpt in insertion order.
func (r *ExcerptRepository) List(ctx context.Context) ([]model.Excerpt, error) {
	var excerpts []model.Excerpt
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&excerpts).Error; err != nil {
		return nil, fmt.Errorf("list excerpts failed: %w", err)
	}
	return excerpts, nil
}

func (r *ExcerptRepository) ListPage(ctx context.Context, page Page) ([]model.Excerpt, error) {
	page = page.normalize()
	var excerpts []model.Excerpt
	if err := r.db.WithContext(ctx).Order("id ASC").Offset(page.Offset).Limit(page.Limit).Find(&excerpts).Error; err != nil {
		return nil, fmt.Errorf("list excerpts failed: %w", err)
	}
	return excerpts, nil
}

func (r *ExcerptRepository) GetByID(ctx context.Context, id uint) (*model.Excerpt, error) {
	var excerpt model.Excerpt
	if err := r.db.WithContext(ctx).First(&excerpt, id).Error; err != nil {
		return nil, fmt.Errorf("get excerpt %d failed: %w", id, translate(err))
	}
	return &excerpt, nil
}

func (r *ExcerptRepository) Update(ctx context.Context, excerpt *model.Excerpt) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Excerpt
		if err := tx.First(&current, excerpt.ID).Error; err != nil {
			return fmt.Errorf("update excerpt %d failed: %w", excerpt.ID, translate(err))
		}
		if err := tx.Model(&current).Update("body", excerpt.Body).Error; err != nil {
			return fmt.Errorf("update excerpt %d failed: %w", excerpt.ID, translate(err))
		}
		excerpt.CreatedDate = current.CreatedDate
		return nil
	})
}

// Delete refuses to remove an excerpt that still has scores.
func (r *ExcerptRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Score{}).Where("excerpt_id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("count scores of excerpt %d failed: %w", id, err)
		}
		if count > 0 {
			return fmt.Errorf("delete excerpt %d: %d scores reference it: %w", id, count, ErrIntegrity)
		}
		res := tx.Delete(&model.Excerpt{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete excerpt %d failed: %w", id, translate(res.Error))
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("delete excerpt %d failed: %w", id, ErrNotFound)
		}
		return nil
	})
}
