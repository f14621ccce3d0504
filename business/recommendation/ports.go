package recommendation

import (
	"context"
	"time"

	"myGreenCart/domain"
)

// ---- Record stores ----

// PurchaseFilter narrows a purchase history query. Nil fields and a zero
// Since do not filter.
type PurchaseFilter struct {
	CartID    *uint64
	ProductID *uint64
	Since     time.Time
}

// PurchaseHistoryStore returns purchase events ordered by occurred_at, then id.
type PurchaseHistoryStore interface {
	Query(ctx context.Context, filter PurchaseFilter) ([]domain.PurchaseEvent, error)
}

type RejectionStore interface {
	// Query returns rejections of productIDs in cartID created at or after since.
	Query(ctx context.Context, cartID uint64, productIDs []uint64, since time.Time) ([]domain.RejectionEvent, error)
	// Create replaces a same-key rejection created before expiredBefore and
	// returns ErrDuplicateRejection when an unexpired one already exists.
	Create(ctx context.Context, event *domain.RejectionEvent, expiredBefore time.Time) error
	// Delete returns ErrRejectionNotFound when nothing was deleted.
	Delete(ctx context.Context, cartID, productID uint64, userID uint) error
}

type FavoritesStore interface {
	ProductIDs(ctx context.Context, userID uint) (map[uint64]struct{}, error)
}

type CartRepository interface {
	// GetCart returns ErrCartNotFound for unknown carts.
	GetCart(ctx context.Context, cartID uint64) (domain.Cart, error)
	ItemProductIDs(ctx context.Context, cartID uint64) ([]uint64, error)
}

type ProductCatalog interface {
	FindByIDs(ctx context.Context, ids []uint64) (map[uint64]domain.Product, error)
}

type TrainingExampleStore interface {
	Create(ctx context.Context, example *domain.TrainingExample) error
	// DeleteOne removes a single example with the given product and label,
	// returning ErrExampleNotFound when none matches.
	DeleteOne(ctx context.Context, productID uint64, label int) error
	ListAll(ctx context.Context) ([]domain.TrainingExample, error)
}

type WeightStore interface {
	// Load returns an empty map when no weights are persisted.
	Load(ctx context.Context) (map[string]float64, error)
	// ReplaceAll deletes every weight row and inserts weights in one transaction.
	ReplaceAll(ctx context.Context, weights map[string]float64) error
}

// ---- External services ----

type StoreAvailabilityService interface {
	Count(ctx context.Context, productName, normalizedAddress string) (int, error)
}

// ---- Caches ----

// A nil entry with a nil error is a miss.
type TrendingCache interface {
	GetTrending(ctx context.Context) (*domain.TrendingCacheEntry, error)
	SetTrending(ctx context.Context, entry domain.TrendingCacheEntry) error
}

type CoPurchaseCache interface {
	GetCoPurchase(ctx context.Context, sourceProductID uint64) (*domain.CoPurchaseCacheEntry, error)
	SetCoPurchase(ctx context.Context, entry domain.CoPurchaseCacheEntry) error
}

// ---- Training queue ----

type ActionPublisher interface {
	Publish(ctx context.Context, action TrainingAction) error
}
