package postgres

import (
	"context"
	"fmt"

	"myGreenCart/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ModelWeightRepository struct {
	DB *gorm.DB
}

func NewModelWeightRepository(db *gorm.DB) *ModelWeightRepository {
	return &ModelWeightRepository{DB: db}
}

// Load returns the persisted weights keyed by feature name. No rows is an
// empty map.
func (r *ModelWeightRepository) Load(ctx context.Context) (map[string]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.ModelWeight
	if err := r.DB.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query model_weights: %w", err)
	}

	out := make(map[string]float64, len(rows))
	for _, row := range rows {
		out[row.Feature] = row.Weight
	}
	return out, nil
}

// ReplaceAll swaps the whole weight set in one transaction so readers never
// see a mix of old and new weights.
func (r *ModelWeightRepository) ReplaceAll(ctx context.Context, weights map[string]float64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	rows := make([]domain.ModelWeight, 0, len(weights))
	for feature, w := range weights {
		rows = append(rows, domain.ModelWeight{Feature: feature, Weight: w})
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&domain.ModelWeight{}).Error; err != nil {
			return fmt.Errorf("failed to clear model_weights: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "feature"}},
			UpdateAll: true,
		}).Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to upsert model_weights: %w", err)
		}
		return nil
	})
}
