// Package records holds the shapes other services return from their
// read-by-id endpoints. They are decoded per request and never persisted.
package records

import (
	"github.com/shopspring/decimal"
)

// User is the user-service record embedded under "user"
type User struct {
	UserID    int    `json:"userId"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// RecordID returns the identifier the record claims to have
func (u *User) RecordID() int { return u.UserID }

// Category is the category embedded in a product record
type Category struct {
	CategoryID    int    `json:"categoryId"`
	CategoryTitle string `json:"categoryTitle,omitempty"`
	ImageURL      string `json:"imageUrl,omitempty"`
}

// Product is the product-service record embedded under "product"
type Product struct {
	ProductID    int              `json:"productId"`
	ProductTitle string           `json:"productTitle,omitempty"`
	ImageURL     string           `json:"imageUrl,omitempty"`
	SKU          string           `json:"sku,omitempty"`
	PriceUnit    *decimal.Decimal `json:"priceUnit,omitempty"`
	Quantity     int              `json:"quantity,omitempty"`
	Category     *Category        `json:"category,omitempty"`
}

// RecordID returns the identifier the record claims to have
func (p *Product) RecordID() int { return p.ProductID }

// Order is the order-service record embedded under "order"
type Order struct {
	OrderID   int              `json:"orderId"`
	OrderDate *DateTime        `json:"orderDate,omitempty"`
	OrderDesc string           `json:"orderDesc,omitempty"`
	OrderFee  *decimal.Decimal `json:"orderFee,omitempty"`
}

// RecordID returns the identifier the record claims to have
func (o *Order) RecordID() int { return o.OrderID }
