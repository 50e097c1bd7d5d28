package favourite

import (
	"strconv"
	"time"

	"github.com/ecommerce/backend/internal/domain/shared"
)

// Key identifies a favourite by (userId, productId, likeDate), in that order.
// LikeDate must go through shared.NormalizeTime so that == holds for equal instants.
type Key struct {
	UserID    int
	ProductID int
	LikeDate  time.Time
}

// NewKey builds a normalized key
func NewKey(userID, productID int, likeDate time.Time) Key {
	return Key{UserID: userID, ProductID: productID, LikeDate: shared.NormalizeTime(likeDate)}
}

// Parts returns the components in declared order
func (k Key) Parts() []shared.KeyPart {
	return []shared.KeyPart{
		{Name: "userId", Value: strconv.Itoa(k.UserID)},
		{Name: "productId", Value: strconv.Itoa(k.ProductID)},
		{Name: "likeDate", Value: shared.FormatLocalDateTime(k.LikeDate)},
	}
}

func (k Key) String() string {
	return shared.FormatParts(k.Parts())
}

// Validate rejects keys with missing components
func (k Key) Validate() error {
	if k.UserID <= 0 {
		return shared.NewValidationError("userId", "is required")
	}
	if k.ProductID <= 0 {
		return shared.NewValidationError("productId", "is required")
	}
	if k.LikeDate.IsZero() {
		return shared.NewValidationError("likeDate", "is required")
	}
	return nil
}

// Favourite records that a user liked a product at a point in time.
// The user and product live in other services; only their ids are stored.
type Favourite struct {
	UserID    int       `gorm:"column:user_id;primaryKey;autoIncrement:false" validate:"required,gt=0"`
	ProductID int       `gorm:"column:product_id;primaryKey;autoIncrement:false" validate:"required,gt=0"`
	LikeDate  time.Time `gorm:"column:like_date;primaryKey" validate:"required"`
}

// TableName returns the table name for GORM
func (Favourite) TableName() string {
	return "favourites"
}

// Key returns the composite identity
func (f *Favourite) Key() Key {
	return NewKey(f.UserID, f.ProductID, f.LikeDate)
}
