package postgres

import (
	"context"
	"errors"
	"fmt"

	"myGreenCart/business/recommendation"
	"myGreenCart/domain"

	"gorm.io/gorm"
)

type CartRepository struct {
	DB *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{DB: db}
}

func (r *CartRepository) GetCart(ctx context.Context, cartID uint64) (domain.Cart, error) {
	if err := ctx.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("context error: %w", err)
	}

	var cart domain.Cart
	err := r.DB.WithContext(ctx).First(&cart, cartID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Cart{}, recommendation.ErrCartNotFound
		}
		return domain.Cart{}, fmt.Errorf("failed to find cart: %w", err)
	}

	return cart, nil
}

// ItemProductIDs returns the products in the cart in insertion order.
func (r *CartRepository) ItemProductIDs(ctx context.Context, cartID uint64) ([]uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var ids []uint64
	err := r.DB.WithContext(ctx).
		Model(&domain.CartItem{}).
		Where("cart_id = ?", cartID).
		Order("id ASC").
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}

	return ids, nil
}
