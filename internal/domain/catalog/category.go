package catalog

import (
	"strings"

	"github.com/ecommerce/backend/internal/domain/shared"
)

// Category groups products in the catalog
type Category struct {
	CategoryID    int    `gorm:"column:category_id;primaryKey;autoIncrement"`
	CategoryTitle string `gorm:"column:category_title;type:varchar(255);not null" validate:"required,max=255"`
	ImageURL      string `gorm:"column:image_url;type:varchar(255)"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// Key returns the primary identity
func (c *Category) Key() shared.IntKey {
	return shared.IntKey(c.CategoryID)
}

// Normalize trims user supplied text
func (c *Category) Normalize() {
	c.CategoryTitle = strings.TrimSpace(c.CategoryTitle)
	c.ImageURL = strings.TrimSpace(c.ImageURL)
}

// Merge copies the non-empty fields of incoming over c
func (c *Category) Merge(incoming *Category) {
	if incoming.CategoryTitle != "" {
		c.CategoryTitle = incoming.CategoryTitle
	}
	if incoming.ImageURL != "" {
		c.ImageURL = incoming.ImageURL
	}
}
