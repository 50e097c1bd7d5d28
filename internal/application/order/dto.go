package order

import (
	"github.com/ecommerce/backend/internal/application/enrichment"
	"github.com/ecommerce/backend/internal/application/records"
	"github.com/ecommerce/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// CartDTO is the wire shape of a cart. User is resolved from the user service.
type CartDTO struct {
	CartID int           `json:"cartId"`
	UserID int           `json:"userId"`
	User   *records.User `json:"user,omitempty"`
}

// OrderDTO is the wire shape of an order
type OrderDTO struct {
	OrderID   int               `json:"orderId"`
	OrderDate *records.DateTime `json:"orderDate,omitempty"`
	OrderDesc string            `json:"orderDesc"`
	OrderFee  decimal.Decimal   `json:"orderFee"`
	Cart      *CartDTO          `json:"cart,omitempty"`
}

// ToCartDTO converts a stored cart into its wire shape with a user stub
func ToCartDTO(c *order.Cart) *CartDTO {
	dto := &CartDTO{CartID: c.CartID, UserID: c.UserID}
	if c.UserID != 0 {
		dto.User = &records.User{UserID: c.UserID}
	}
	return dto
}

// FromCartDTO keeps only the user id of the embedded user
func FromCartDTO(dto *CartDTO) (*order.Cart, error) {
	nested := 0
	if dto.User != nil {
		nested = dto.User.UserID
	}
	userID, err := enrichment.ReconcileRef("userId", dto.UserID, nested)
	if err != nil {
		return nil, err
	}
	return &order.Cart{CartID: dto.CartID, UserID: userID}, nil
}

// ToOrderDTO converts a stored order into its wire shape
func ToOrderDTO(o *order.Order) *OrderDTO {
	dto := &OrderDTO{
		OrderID:   o.OrderID,
		OrderDate: records.NewDateTime(o.OrderDate),
		OrderDesc: o.OrderDesc,
		OrderFee:  o.OrderFee,
	}
	switch {
	case o.Cart != nil:
		dto.Cart = &CartDTO{CartID: o.Cart.CartID, UserID: o.Cart.UserID}
	case o.CartID != nil:
		dto.Cart = &CartDTO{CartID: *o.CartID}
	}
	return dto
}

// fromOrderDTO converts a wire order into the stored shape. Only the id of
// the cart is kept.
func fromOrderDTO(dto *OrderDTO) *order.Order {
	o := &order.Order{
		OrderID:   dto.OrderID,
		OrderDate: dto.OrderDate.Value(),
		OrderDesc: dto.OrderDesc,
		OrderFee:  dto.OrderFee,
	}
	if dto.Cart != nil && dto.Cart.CartID != 0 {
		id := dto.Cart.CartID
		o.CartID = &id
	}
	return o
}
