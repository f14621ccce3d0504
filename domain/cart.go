package domain

// Cart is the shared shopping list. Only the fields the recommender reads are mapped.
type Cart struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string `gorm:"column:name;type:text" json:"name"`
	Address string `gorm:"column:address;type:text" json:"address"`
}

func (Cart) TableName() string {
	return "carts"
}

// CartItem is a product currently sitting in a cart.
type CartItem struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID    uint64 `gorm:"column:cart_id;not null;index" json:"cart_id"`
	ProductID uint64 `gorm:"column:product_id;not null" json:"product_id"`
	Quantity  int    `gorm:"column:quantity;not null;default:1" json:"quantity"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// Favorite marks a product as a favorite of one user.
type Favorite struct {
	UserID    uint   `gorm:"column:user_id;primaryKey" json:"user_id"`
	ProductID uint64 `gorm:"column:product_id;primaryKey" json:"product_id"`
}

func (Favorite) TableName() string {
	return "favorites"
}
