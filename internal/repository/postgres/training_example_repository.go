package postgres

import (
	"context"
	"errors"
	"fmt"

	"myGreenCart/business/recommendation"
	"myGreenCart/domain"

	"gorm.io/gorm"
)

type TrainingExampleRepository struct {
	DB *gorm.DB
}

func NewTrainingExampleRepository(db *gorm.DB) *TrainingExampleRepository {
	return &TrainingExampleRepository{DB: db}
}

func (r *TrainingExampleRepository) Create(ctx context.Context, example *domain.TrainingExample) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(example).Error; err != nil {
		return fmt.Errorf("failed to save training example: %w", err)
	}

	return nil
}

// DeleteOne removes the most recent example with the given product and label.
func (r *TrainingExampleRepository) DeleteOne(ctx context.Context, productID uint64, label int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var example domain.TrainingExample
		err := tx.Where("product_id = ? AND label = ?", productID, label).
			Order("id DESC").
			First(&example).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return recommendation.ErrExampleNotFound
			}
			return fmt.Errorf("failed to find training example: %w", err)
		}

		if err := tx.Delete(&domain.TrainingExample{}, example.ID).Error; err != nil {
			return fmt.Errorf("failed to delete training example: %w", err)
		}
		return nil
	})
}

func (r *TrainingExampleRepository) ListAll(ctx context.Context) ([]domain.TrainingExample, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var examples []domain.TrainingExample
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&examples).Error; err != nil {
		return nil, fmt.Errorf("failed to list training examples: %w", err)
	}

	return examples, nil
}
