package domain

import "time"

// RejectionEvent is an explicit "not interested" mark from a cart member.
// (cart_id, product_id, rejected_by) is unique.
type RejectionEvent struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID     uint64    `gorm:"column:cart_id;not null;uniqueIndex:ux_rejection_cart_product_user" json:"cart_id"`
	ProductID  uint64    `gorm:"column:product_id;not null;uniqueIndex:ux_rejection_cart_product_user" json:"product_id"`
	RejectedBy uint      `gorm:"column:rejected_by;not null;uniqueIndex:ux_rejection_cart_product_user" json:"rejected_by"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (RejectionEvent) TableName() string {
	return "product_rejections"
}
