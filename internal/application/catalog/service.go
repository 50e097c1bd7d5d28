package catalog

import (
	"github.com/ecommerce/backend/internal/application/enrichment"
	"github.com/ecommerce/backend/internal/domain/catalog"
	"github.com/ecommerce/backend/internal/domain/shared"
)

// ProductService serves products
type ProductService = enrichment.Service[shared.IntKey, catalog.Product, ProductDTO]

// CategoryService serves categories
type CategoryService = enrichment.Service[shared.IntKey, catalog.Category, CategoryDTO]

// ProductDescriptor describes products. A product must exist to be deleted.
func ProductDescriptor() enrichment.Descriptor[shared.IntKey, catalog.Product, ProductDTO] {
	return enrichment.Descriptor[shared.IntKey, catalog.Product, ProductDTO]{
		Entity:  "product",
		Key:     func(p *catalog.Product) shared.IntKey { return p.Key() },
		ToDTO:   ToProductDTO,
		FromDTO: FromProductDTO,
		Merge: func(existing, incoming *catalog.Product) *catalog.Product {
			merged := *existing
			merged.Merge(incoming)
			return &merged
		},
		Delete: enrichment.DeleteLookupFirst,
		Write:  enrichment.WriteEcho,
	}
}

// CategoryDescriptor describes categories
func CategoryDescriptor() enrichment.Descriptor[shared.IntKey, catalog.Category, CategoryDTO] {
	return enrichment.Descriptor[shared.IntKey, catalog.Category, CategoryDTO]{
		Entity:  "category",
		Key:     func(c *catalog.Category) shared.IntKey { return c.Key() },
		ToDTO:   ToCategoryDTO,
		FromDTO: FromCategoryDTO,
		Merge: func(existing, incoming *catalog.Category) *catalog.Category {
			merged := *existing
			merged.Merge(incoming)
			return &merged
		},
		Delete: enrichment.DeleteDirect,
		Write:  enrichment.WriteEcho,
	}
}

// NewProductService creates a new ProductService
func NewProductService(store shared.RecordStore[shared.IntKey, catalog.Product], opts ...enrichment.Option) *ProductService {
	return enrichment.NewService(ProductDescriptor(), store, nil, opts...)
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(store shared.RecordStore[shared.IntKey, catalog.Category], opts ...enrichment.Option) *CategoryService {
	return enrichment.NewService(CategoryDescriptor(), store, nil, opts...)
}
