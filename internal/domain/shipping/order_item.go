package shipping

import (
	"strconv"

	"github.com/ecommerce/backend/internal/domain/shared"
)

// Key identifies an order item by (productId, orderId), in that order.
type Key struct {
	ProductID int
	OrderID   int
}

// Parts returns the components in declared order
func (k Key) Parts() []shared.KeyPart {
	return []shared.KeyPart{
		{Name: "productId", Value: strconv.Itoa(k.ProductID)},
		{Name: "orderId", Value: strconv.Itoa(k.OrderID)},
	}
}

func (k Key) String() string {
	return shared.FormatParts(k.Parts())
}

// Validate rejects keys with missing components
func (k Key) Validate() error {
	if k.ProductID <= 0 {
		return shared.NewValidationError("productId", "is required")
	}
	if k.OrderID <= 0 {
		return shared.NewValidationError("orderId", "is required")
	}
	return nil
}

// OrderItem is a line of an order to be shipped. Product and order are owned
// by other services; only their ids are stored.
type OrderItem struct {
	ProductID       int `gorm:"column:product_id;primaryKey;autoIncrement:false" validate:"required,gt=0"`
	OrderID         int `gorm:"column:order_id;primaryKey;autoIncrement:false" validate:"required,gt=0"`
	OrderedQuantity int `gorm:"column:ordered_quantity;not null;default:0" validate:"gte=0"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// Key returns the composite identity
func (i *OrderItem) Key() Key {
	return Key{ProductID: i.ProductID, OrderID: i.OrderID}
}
