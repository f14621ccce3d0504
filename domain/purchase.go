package domain

import "time"

// CREATE TABLE public.purchase_history (
//     id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     cart_id     BIGINT NOT NULL,
//     product_id  BIGINT NOT NULL,
//     quantity    INT NOT NULL DEFAULT 1,
//     occurred_at TIMESTAMPTZ NOT NULL
// );

// PurchaseEvent is one "bought" mark on a cart item. Rows are append-only.
type PurchaseEvent struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID     uint64    `gorm:"column:cart_id;not null;index" json:"cart_id"`
	ProductID  uint64    `gorm:"column:product_id;not null;index" json:"product_id"`
	Quantity   int       `gorm:"column:quantity;not null;default:1" json:"quantity"`
	OccurredAt time.Time `gorm:"column:occurred_at;not null;index" json:"occurred_at"`
}

func (PurchaseEvent) TableName() string {
	return "purchase_history"
}
