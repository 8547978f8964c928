package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"typist/internal/model"
)

type ScoreRepository struct {
	db *gorm.DB
}

func NewScoreRepository(db *gorm.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// Create inserts the score after checking, in the same transaction, that its
// excerpt exists. A missing excerpt yields ErrIntegrity whether the check or
// the store's foreign key catches it.
func (r *ScoreRepository) Create(ctx context.Context, score *model.Score) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Excerpt{}).Where("id = ?", score.ExcerptID).Count(&count).Error; err != nil {
			return fmt.Errorf("check excerpt %d failed: %w", score.ExcerptID, err)
		}
		if count == 0 {
			return fmt.Errorf("create score: excerpt %d does not exist: %w", score.ExcerptID, ErrIntegrity)
		}
		if err := tx.Create(score).Error; err != nil {
			return fmt.Errorf("create score failed: %w", translate(err))
		}
		return nil
	})
}

func (r *ScoreRepository) GetByID(ctx context.Context, id uint) (*model.Score, error) {
	var score model.Score
	if err := r.db.WithContext(ctx).First(&score, id).Error; err != nil {
		return nil, fmt.Errorf("get score %d failed: %w", id, translate(err))
	}
	return &score, nil
}

func (r *ScoreRepository) List(ctx context.Context, page Page) ([]model.Score, error) {
	page = page.normalize()
	var scores []model.Score
	if err := r.db.WithContext(ctx).Order("id ASC").Offset(page.Offset).Limit(page.Limit).Find(&scores).Error; err != nil {
		return nil, fmt.Errorf("list scores failed: %w", err)
	}
	return scores, nil
}

func (r *ScoreRepository) ListByExcerptID(ctx context.Context, excerptID uint) ([]model.Score, error) {
	var scores []model.Score
	if err := r.db.WithContext(ctx).Where("excerpt_id = ?", excerptID).Order("id ASC").Find(&scores).Error; err != nil {
		return nil, fmt.Errorf("list scores of excerpt %d failed: %w", excerptID, err)
	}
	return scores, nil
}

func (r *ScoreRepository) CountByExcerptID(ctx context.Context, excerptID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Score{}).Where("excerpt_id = ?", excerptID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count scores of excerpt %d failed: %w", excerptID, err)
	}
	return count, nil
}

// Update rewrites the measured fields of a score. The excerpt reference is
// re-checked like on Create.
func (r *ScoreRepository) Update(ctx context.Context, score *model.Score) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Score
		if err := tx.First(&current, score.ID).Error; err != nil {
			return fmt.Errorf("update score %d failed: %w", score.ID, translate(err))
		}
		var count int64
		if err := tx.Model(&model.Excerpt{}).Where("id = ?", score.ExcerptID).Count(&count).Error; err != nil {
			return fmt.Errorf("check excerpt %d failed: %w", score.ExcerptID, err)
		}
		if count == 0 {
			return fmt.Errorf("update score: excerpt %d does not exist: %w", score.ExcerptID, ErrIntegrity)
		}
		err := tx.Model(&current).Updates(map[string]any{
			"wpm":         score.WPM,
			"time":        score.Time,
			"error_count": score.ErrorCount,
			"excerpt_id":  score.ExcerptID,
		}).Error
		if err != nil {
			return fmt.Errorf("update score %d failed: %w", score.ID, translate(err))
		}
		score.CreatedDate = current.CreatedDate
		return nil
	})
}

func (r *ScoreRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Score{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete score %d failed: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete score %d failed: %w", id, ErrNotFound)
	}
	return nil
}
