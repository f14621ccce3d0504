package postgres

import (
	"context"
	"fmt"

	"myGreenCart/business/recommendation"
	"myGreenCart/domain"

	"gorm.io/gorm"
)

type PurchaseRepository struct {
	DB *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{DB: db}
}

func (r *PurchaseRepository) Query(ctx context.Context, filter recommendation.PurchaseFilter) ([]domain.PurchaseEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	q := r.DB.WithContext(ctx).Model(&domain.PurchaseEvent{})
	if filter.CartID != nil {
		q = q.Where("cart_id = ?", *filter.CartID)
	}
	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	if !filter.Since.IsZero() {
		q = q.Where("occurred_at >= ?", filter.Since)
	}

	var events []domain.PurchaseEvent
	if err := q.Order("occurred_at ASC").Order("id ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to query purchase history: %w", err)
	}

	return events, nil
}
