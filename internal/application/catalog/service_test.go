package catalog

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ecommerce/backend/internal/domain/catalog"
	"github.com/ecommerce/backend/internal/domain/shared"
	"github.com/ecommerce/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductStore is a mock implementation of the product store
type MockProductStore struct {
	mock.Mock
}

func (m *MockProductStore) FindByKey(ctx context.Context, key shared.IntKey) (*catalog.Product, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductStore) FindAll(ctx context.Context) ([]*catalog.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Product), args.Error(1)
}

func (m *MockProductStore) Put(ctx context.Context, p *catalog.Product) (*catalog.Product, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductStore) DeleteByKey(ctx context.Context, key shared.IntKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func newTestProduct() *catalog.Product {
	categoryID := 1
	return &catalog.Product{
		ProductID:    1,
		ProductTitle: "asus",
		ImageURL:     "xxx",
		SKU:          "dfqejklejrkn",
		PriceUnit:    decimal.RequireFromString("5000"),
		Quantity:     50,
		CategoryID:   &categoryID,
		Category:     &catalog.Category{CategoryID: 1, CategoryTitle: "Computer"},
	}
}

func TestProductService_FindAll(t *testing.T) {
	store := new(MockProductStore)
	svc := NewProductService(store)
	store.On("FindAll", mock.Anything).Return([]*catalog.Product{newTestProduct()}, nil)

	result, err := svc.FindAll(context.Background())

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "asus", result[0].ProductTitle)
	require.NotNil(t, result[0].Category)
	assert.Equal(t, "Computer", result[0].Category.CategoryTitle)
}

func TestProductService_FindByIDMissing(t *testing.T) {
	store := new(MockProductStore)
	svc := NewProductService(store)
	store.On("FindByKey", mock.Anything, shared.IntKey(7)).Return(nil, shared.ErrNotFound)

	_, err := svc.FindByID(context.Background(), 7)

	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Contains(t, err.Error(), "product with key [7] not found")
}

func TestProductService_SaveKeepsCategoryID(t *testing.T) {
	store := new(MockProductStore)
	svc := NewProductService(store)
	store.On("Put", mock.Anything, mock.MatchedBy(func(p *catalog.Product) bool {
		return p.ProductTitle == "asus" && p.CategoryID != nil && *p.CategoryID == 1 && p.Category == nil
	})).Return(newTestProduct(), nil)

	result, err := svc.Save(context.Background(), &ProductDTO{
		ProductTitle: " asus ",
		PriceUnit:    decimal.RequireFromString("5000"),
		Category:     &CategoryDTO{CategoryID: 1, CategoryTitle: "ignored"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.ProductID)
	store.AssertExpectations(t)
}

func TestProductService_SaveRejectsNegativePrice(t *testing.T) {
	store := new(MockProductStore)
	svc := NewProductService(store)

	_, err := svc.Save(context.Background(), &ProductDTO{ProductTitle: "asus", PriceUnit: decimal.NewFromInt(-1)})

	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestProductService_DeleteByID(t *testing.T) {
	t.Run("looks up then deletes", func(t *testing.T) {
		store := new(MockProductStore)
		svc := NewProductService(store)
		store.On("FindByKey", mock.Anything, shared.IntKey(1)).Return(newTestProduct(), nil)
		store.On("DeleteByKey", mock.Anything, shared.IntKey(1)).Return(nil).Once()

		require.NoError(t, svc.DeleteByID(context.Background(), 1))
		store.AssertExpectations(t)
	})

	t.Run("missing product is an error", func(t *testing.T) {
		store := new(MockProductStore)
		svc := NewProductService(store)
		store.On("FindByKey", mock.Anything, shared.IntKey(1)).Return(nil, shared.ErrNotFound)

		err := svc.DeleteByID(context.Background(), 1)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		store.AssertNotCalled(t, "DeleteByKey", mock.Anything, mock.Anything)
	})
}

func TestProductService_UpdateByIDWithMemoryStore(t *testing.T) {
	svc := NewProductService(persistence.NewProductStore(nil))
	ctx := context.Background()

	saved, err := svc.Save(ctx, &ProductDTO{ProductTitle: "asus", Quantity: 50, PriceUnit: decimal.RequireFromString("5000")})
	require.NoError(t, err)
	assert.Nil(t, saved.Category)

	updated, err := svc.UpdateByID(ctx, shared.IntKey(saved.ProductID), &ProductDTO{
		SKU:      "SKU-2",
		Quantity: 10,
		Category: &CategoryDTO{CategoryID: 3},
	})
	require.NoError(t, err)

	assert.Equal(t, "asus", updated.ProductTitle)
	assert.Equal(t, "SKU-2", updated.SKU)
	assert.Equal(t, 10, updated.Quantity)
	assert.True(t, decimal.RequireFromString("5000").Equal(updated.PriceUnit))
	require.NotNil(t, updated.Category)
	assert.Equal(t, 3, updated.Category.CategoryID)
}

func TestCategoryService(t *testing.T) {
	svc := NewCategoryService(persistence.NewCategoryStore(nil))
	ctx := context.Background()

	saved, err := svc.Save(ctx, &CategoryDTO{CategoryTitle: " Computer "})
	require.NoError(t, err)
	assert.Equal(t, "Computer", saved.CategoryTitle)

	_, err = svc.Save(ctx, &CategoryDTO{})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	all, err := svc.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, svc.DeleteByID(ctx, shared.IntKey(saved.CategoryID)))
	require.NoError(t, svc.DeleteByID(ctx, shared.IntKey(saved.CategoryID)))
}

func TestProductDTO_JSON(t *testing.T) {
	var dto ProductDTO
	require.NoError(t, json.Unmarshal([]byte(`{
		"productId": 1,
		"productTitle": "asus",
		"priceUnit": 5000.5,
		"quantity": 50,
		"category": {"categoryId": 1, "categoryTitle": "Computer"}
	}`), &dto))

	assert.Equal(t, 1, dto.ProductID)
	assert.True(t, decimal.RequireFromString("5000.5").Equal(dto.PriceUnit))
	require.NotNil(t, dto.Category)
	assert.Equal(t, "Computer", dto.Category.CategoryTitle)
}
