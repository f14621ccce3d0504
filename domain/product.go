package domain

import (
	"time"
)

// CREATE TABLE public.products (
//     id               BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     product_name     TEXT,
//     product_category TEXT,
//     unit             TEXT,
//     image_url        TEXT,
//     created_at       TIMESTAMPTZ DEFAULT NOW()
// );

// Product is the catalog view the recommender needs: a display name and an
// image. The name is also the key the store availability service searches by.
type Product struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductName     string    `gorm:"column:product_name;type:text" json:"product_name"`
	ProductCategory string    `gorm:"column:product_category;type:text" json:"product_category"`
	Unit            string    `gorm:"column:unit;type:text" json:"unit"`
	ImageURL        string    `gorm:"column:image_url;type:text" json:"image_url"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Product) TableName() string {
	return "products"
}
