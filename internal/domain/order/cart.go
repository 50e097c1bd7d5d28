package order

import (
	"github.com/ecommerce/backend/internal/domain/shared"
)

// Cart belongs to a user owned by the user service. Only the user id is stored.
type Cart struct {
	CartID int `gorm:"column:cart_id;primaryKey;autoIncrement"`
	UserID int `gorm:"column:user_id;not null;index" validate:"required,gt=0"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// Key returns the primary identity
func (c *Cart) Key() shared.IntKey {
	return shared.IntKey(c.CartID)
}

// Merge copies the non-empty fields of incoming over c
func (c *Cart) Merge(incoming *Cart) {
	if incoming.UserID != 0 {
		c.UserID = incoming.UserID
	}
}
