package domain

import "time"

// Feature names in vector order. Training rows, weight rows and inference all
// index features through this list; the position of a name is the position of
// its value in FeatureVector.Values.
const (
	FeatureBias                = "bias"
	FeatureIsFavorite          = "is_favorite"
	FeaturePurchasedBefore     = "purchased_before"
	FeatureTimesPurchased      = "times_purchased"
	FeatureRecentlyPurchased   = "recently_purchased"
	FeatureStoreCount          = "store_count"
	FeatureTimesRejectedByUser = "times_rejected_by_user"
	FeatureTimesRejectedByCart = "times_rejected_by_cart"
)

// FeatureDim is the length of a FeatureVector.
const FeatureDim = 8

// FeatureNames is the fixed field order of a FeatureVector.
var FeatureNames = [FeatureDim]string{
	FeatureBias,
	FeatureIsFavorite,
	FeaturePurchasedBefore,
	FeatureTimesPurchased,
	FeatureRecentlyPurchased,
	FeatureStoreCount,
	FeatureTimesRejectedByUser,
	FeatureTimesRejectedByCart,
}

// FeatureVector is the numeric encoding of one candidate for one cart and user.
// It is embedded in TrainingExample so stored columns carry the feature names.
type FeatureVector struct {
	Bias                float64 `gorm:"column:bias" json:"bias"`
	IsFavorite          float64 `gorm:"column:is_favorite" json:"is_favorite"`
	PurchasedBefore     float64 `gorm:"column:purchased_before" json:"purchased_before"`
	TimesPurchased      float64 `gorm:"column:times_purchased" json:"times_purchased"`
	RecentlyPurchased   float64 `gorm:"column:recently_purchased" json:"recently_purchased"`
	StoreCount          float64 `gorm:"column:store_count" json:"store_count"`
	TimesRejectedByUser float64 `gorm:"column:times_rejected_by_user" json:"times_rejected_by_user"`
	TimesRejectedByCart float64 `gorm:"column:times_rejected_by_cart" json:"times_rejected_by_cart"`
}

// Values returns the vector in FeatureNames order.
func (f FeatureVector) Values() [FeatureDim]float64 {
	return [FeatureDim]float64{
		f.Bias,
		f.IsFavorite,
		f.PurchasedBefore,
		f.TimesPurchased,
		f.RecentlyPurchased,
		f.StoreCount,
		f.TimesRejectedByUser,
		f.TimesRejectedByCart,
	}
}

// Named returns the vector keyed by feature name.
func (f FeatureVector) Named() map[string]float64 {
	vals := f.Values()
	out := make(map[string]float64, FeatureDim)
	for i, name := range FeatureNames {
		out[name] = vals[i]
	}
	return out
}

// Labels of a TrainingExample.
const (
	LabelRejected = 0
	LabelKept     = 1
)

// TrainingExample is one implicit-feedback observation.
type TrainingExample struct {
	ID        uint64        `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint64        `gorm:"column:product_id;not null;index:ix_training_product_label" json:"product_id"`
	CartID    uint64        `gorm:"column:cart_id;not null" json:"cart_id"`
	UserID    uint          `gorm:"column:user_id;not null" json:"user_id"`
	Label     int           `gorm:"column:label;not null;index:ix_training_product_label" json:"label"`
	Features  FeatureVector `gorm:"embedded" json:"features"`
	CreatedAt time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (TrainingExample) TableName() string {
	return "training_examples"
}

// ModelWeight is one persisted weight, keyed by feature name.
type ModelWeight struct {
	Feature   string    `gorm:"column:feature;primaryKey" json:"feature"`
	Weight    float64   `gorm:"column:weight;not null" json:"weight"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ModelWeight) TableName() string {
	return "model_weights"
}
