package order

import (
	"strings"
	"time"

	"github.com/ecommerce/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Order is a placed order, optionally attached to the cart it was checked out from
type Order struct {
	OrderID   int             `gorm:"column:order_id;primaryKey;autoIncrement"`
	OrderDate time.Time       `gorm:"column:order_date;not null"`
	OrderDesc string          `gorm:"column:order_desc;type:varchar(255)" validate:"max=255"`
	OrderFee  decimal.Decimal `gorm:"column:order_fee;type:decimal(18,4);not null;default:0"`
	CartID    *int            `gorm:"column:cart_id;index"`
	Cart      *Cart           `gorm:"foreignKey:CartID;references:CartID" validate:"-"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// Key returns the primary identity
func (o *Order) Key() shared.IntKey {
	return shared.IntKey(o.OrderID)
}

// Normalize defaults the order date and rejects a negative fee
func (o *Order) Normalize(now time.Time) error {
	o.OrderDesc = strings.TrimSpace(o.OrderDesc)
	if o.OrderDate.IsZero() {
		o.OrderDate = now
	}
	if o.OrderFee.IsNegative() {
		return shared.NewValidationError("orderFee", "cannot be negative")
	}
	if o.Cart != nil && o.Cart.CartID != 0 {
		id := o.Cart.CartID
		o.CartID = &id
	}
	return nil
}

// Merge copies the non-empty fields of incoming over o
func (o *Order) Merge(incoming *Order) {
	if !incoming.OrderDate.IsZero() {
		o.OrderDate = incoming.OrderDate
	}
	if incoming.OrderDesc != "" {
		o.OrderDesc = incoming.OrderDesc
	}
	if !incoming.OrderFee.IsZero() {
		o.OrderFee = incoming.OrderFee
	}
	if incoming.CartID != nil {
		o.CartID = incoming.CartID
		o.Cart = incoming.Cart
	}
}
