package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"myGreenCart/business/recommendation"
	"myGreenCart/domain"

	"gorm.io/gorm"
)

type RejectionRepository struct {
	DB *gorm.DB
}

func NewRejectionRepository(db *gorm.DB) *RejectionRepository {
	return &RejectionRepository{DB: db}
}

func (r *RejectionRepository) Query(ctx context.Context, cartID uint64, productIDs []uint64, since time.Time) ([]domain.RejectionEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if len(productIDs) == 0 {
		return []domain.RejectionEvent{}, nil
	}

	var events []domain.RejectionEvent
	err := r.DB.WithContext(ctx).
		Where("cart_id = ? AND product_id IN ? AND created_at >= ?", cartID, productIDs, since).
		Order("id ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query rejections: %w", err)
	}

	return events, nil
}

// Create removes a same-key rejection created before expiredBefore and then
// inserts event, in one transaction.
func (r *RejectionRepository) Create(ctx context.Context, event *domain.RejectionEvent, expiredBefore time.Time) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("cart_id = ? AND product_id = ? AND rejected_by = ? AND created_at < ?",
				event.CartID, event.ProductID, event.RejectedBy, expiredBefore).
			Delete(&domain.RejectionEvent{}).Error; err != nil {
			return fmt.Errorf("failed to purge expired rejection: %w", err)
		}
		return tx.Create(event).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return recommendation.ErrDuplicateRejection
		}
		return fmt.Errorf("failed to create rejection: %w", err)
	}

	return nil
}

func (r *RejectionRepository) Delete(ctx context.Context, cartID, productID uint64, userID uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).
		Where("cart_id = ? AND product_id = ? AND rejected_by = ?", cartID, productID, userID).
		Delete(&domain.RejectionEvent{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete rejection: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return recommendation.ErrRejectionNotFound
	}

	return nil
}
