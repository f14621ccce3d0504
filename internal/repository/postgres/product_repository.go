package postgres

import (
	"context"
	"fmt"

	"myGreenCart/domain"

	"gorm.io/gorm"
)

type ProductRepository struct {
	DB *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{
		DB: db,
	}
}

// FindByIDs returns the known products among ids. Unknown ids are absent.
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []uint64) (map[uint64]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	out := make(map[uint64]domain.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var products []domain.Product
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}

	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}
