package catalog

import (
	"github.com/ecommerce/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CategoryDTO is the wire shape of a category
type CategoryDTO struct {
	CategoryID    int    `json:"categoryId"`
	CategoryTitle string `json:"categoryTitle"`
	ImageURL      string `json:"imageUrl"`
}

// ProductDTO is the wire shape of a product
type ProductDTO struct {
	ProductID    int             `json:"productId"`
	ProductTitle string          `json:"productTitle"`
	ImageURL     string          `json:"imageUrl"`
	SKU          string          `json:"sku"`
	PriceUnit    decimal.Decimal `json:"priceUnit"`
	Quantity     int             `json:"quantity"`
	Category     *CategoryDTO    `json:"category,omitempty"`
}

// ToCategoryDTO converts a stored category into its wire shape
func ToCategoryDTO(c *catalog.Category) *CategoryDTO {
	return &CategoryDTO{
		CategoryID:    c.CategoryID,
		CategoryTitle: c.CategoryTitle,
		ImageURL:      c.ImageURL,
	}
}

// FromCategoryDTO converts a wire category into the stored shape
func FromCategoryDTO(dto *CategoryDTO) (*catalog.Category, error) {
	c := &catalog.Category{
		CategoryID:    dto.CategoryID,
		CategoryTitle: dto.CategoryTitle,
		ImageURL:      dto.ImageURL,
	}
	c.Normalize()
	return c, nil
}

// ToProductDTO converts a stored product into its wire shape. A category that
// was not loaded is rendered as a stub carrying only its id.
func ToProductDTO(p *catalog.Product) *ProductDTO {
	dto := &ProductDTO{
		ProductID:    p.ProductID,
		ProductTitle: p.ProductTitle,
		ImageURL:     p.ImageURL,
		SKU:          p.SKU,
		PriceUnit:    p.PriceUnit,
		Quantity:     p.Quantity,
	}
	switch {
	case p.Category != nil:
		dto.Category = ToCategoryDTO(p.Category)
	case p.CategoryID != nil:
		dto.Category = &CategoryDTO{CategoryID: *p.CategoryID}
	}
	return dto
}

// FromProductDTO converts a wire product into the stored shape. Only the id
// of the category is kept.
func FromProductDTO(dto *ProductDTO) (*catalog.Product, error) {
	p := &catalog.Product{
		ProductID:    dto.ProductID,
		ProductTitle: dto.ProductTitle,
		ImageURL:     dto.ImageURL,
		SKU:          dto.SKU,
		PriceUnit:    dto.PriceUnit,
		Quantity:     dto.Quantity,
	}
	if dto.Category != nil && dto.Category.CategoryID != 0 {
		id := dto.Category.CategoryID
		p.CategoryID = &id
	}
	if err := p.Normalize(); err != nil {
		return nil, err
	}
	return p, nil
}
