package catalog

import (
	"strings"

	"github.com/ecommerce/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product represents a sellable item in the catalog
type Product struct {
	ProductID    int             `gorm:"column:product_id;primaryKey;autoIncrement"`
	ProductTitle string          `gorm:"column:product_title;type:varchar(255);not null" validate:"required,max=255"`
	ImageURL     string          `gorm:"column:image_url;type:varchar(255)"`
	SKU          string          `gorm:"column:sku;type:varchar(255);index"`
	PriceUnit    decimal.Decimal `gorm:"column:price_unit;type:decimal(18,4);not null;default:0"`
	Quantity     int             `gorm:"not null;default:0" validate:"gte=0"`
	CategoryID   *int            `gorm:"column:category_id;index"`
	Category     *Category       `gorm:"foreignKey:CategoryID;references:CategoryID" validate:"-"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// Key returns the primary identity
func (p *Product) Key() shared.IntKey {
	return shared.IntKey(p.ProductID)
}

// Normalize trims text fields and rejects a negative price
func (p *Product) Normalize() error {
	p.ProductTitle = strings.TrimSpace(p.ProductTitle)
	p.SKU = strings.TrimSpace(p.SKU)
	if p.PriceUnit.IsNegative() {
		return shared.NewValidationError("priceUnit", "cannot be negative")
	}
	if p.Category != nil {
		p.Category.Normalize()
		if p.Category.CategoryID != 0 {
			id := p.Category.CategoryID
			p.CategoryID = &id
		}
	}
	return nil
}

// Merge copies the non-empty fields of incoming over p
func (p *Product) Merge(incoming *Product) {
	if incoming.ProductTitle != "" {
		p.ProductTitle = incoming.ProductTitle
	}
	if incoming.ImageURL != "" {
		p.ImageURL = incoming.ImageURL
	}
	if incoming.SKU != "" {
		p.SKU = incoming.SKU
	}
	if !incoming.PriceUnit.IsZero() {
		p.PriceUnit = incoming.PriceUnit
	}
	p.Quantity = incoming.Quantity
	if incoming.CategoryID != nil {
		p.CategoryID = incoming.CategoryID
		p.Category = incoming.Category
	}
}
