package integration

import (
	"context"
	"testing"

	catalogapp "github.com/ecommerce/backend/internal/application/catalog"
	userapp "github.com/ecommerce/backend/internal/application/user"
	"github.com/ecommerce/backend/internal/domain/shared"
	"github.com/ecommerce/backend/internal/domain/shipping"
	"github.com/ecommerce/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Postgres(t *testing.T) {
	skipShort(t)

	db := NewTestDB(t, "product-service")
	truncate(t, db, "products", "categories")
	ctx := context.Background()

	categories := catalogapp.NewCategoryService(persistence.NewCategoryStore(db))
	products := catalogapp.NewProductService(persistence.NewProductStore(db))

	cat, err := categories.Save(ctx, &catalogapp.CategoryDTO{CategoryTitle: "Phones"})
	require.NoError(t, err)
	require.Equal(t, 1, cat.CategoryID)

	saved, err := products.Save(ctx, &catalogapp.ProductDTO{
		ProductTitle: "asus",
		SKU:          "dfqejklejrkn",
		PriceUnit:    decimal.RequireFromString("1200.50"),
		Quantity:     50,
		Category:     &catalogapp.CategoryDTO{CategoryID: cat.CategoryID},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, saved.ProductID)

	t.Run("reads carry the category", func(t *testing.T) {
		found, err := products.FindByID(ctx, shared.IntKey(saved.ProductID))
		require.NoError(t, err)
		require.NotNil(t, found.Category)
		assert.Equal(t, "Phones", found.Category.CategoryTitle)
		assert.True(t, decimal.RequireFromString("1200.5").Equal(found.PriceUnit))
	})

	t.Run("update by id keeps unspecified fields", func(t *testing.T) {
		updated, err := products.UpdateByID(ctx, shared.IntKey(saved.ProductID), &catalogapp.ProductDTO{Quantity: 49})
		require.NoError(t, err)
		assert.Equal(t, 49, updated.Quantity)
		assert.Equal(t, "asus", updated.ProductTitle)
	})

	t.Run("delete removes the row", func(t *testing.T) {
		require.NoError(t, products.DeleteByID(ctx, shared.IntKey(saved.ProductID)))
		_, err := products.FindByID(ctx, shared.IntKey(saved.ProductID))
		assert.ErrorIs(t, err, shared.ErrNotFound)

		all, err := products.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}

func TestOrderItemStore_CompositeKey(t *testing.T) {
	skipShort(t)

	db := NewTestDB(t, "shipping-service")
	truncate(t, db, "order_items")
	ctx := context.Background()
	store := persistence.NewOrderItemStore(db)

	for _, item := range []*shipping.OrderItem{
		{ProductID: 1, OrderID: 1, OrderedQuantity: 2},
		{ProductID: 1, OrderID: 2, OrderedQuantity: 5},
		{ProductID: 2, OrderID: 1, OrderedQuantity: 1},
	} {
		_, err := store.Put(ctx, item)
		require.NoError(t, err)
	}

	// Put with an existing key replaces the row
	_, err := store.Put(ctx, &shipping.OrderItem{ProductID: 1, OrderID: 2, OrderedQuantity: 7})
	require.NoError(t, err)

	found, err := store.FindByKey(ctx, shipping.Key{ProductID: 1, OrderID: 2})
	require.NoError(t, err)
	assert.Equal(t, 7, found.OrderedQuantity)

	all, err := store.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, store.DeleteByKey(ctx, shipping.Key{ProductID: 1, OrderID: 1}))
	_, err = store.FindByKey(ctx, shipping.Key{ProductID: 1, OrderID: 1})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	err = store.DeleteByKey(ctx, shipping.Key{ProductID: 9, OrderID: 9})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUserRepository_Postgres(t *testing.T) {
	skipShort(t)

	db := NewTestDB(t, "user-service")
	truncate(t, db, "credentials", "users")
	ctx := context.Background()
	users := userapp.NewUserService(persistence.NewUserRepository(db))

	saved, err := users.Save(ctx, &userapp.UserDTO{
		FirstName: "selim",
		LastName:  "horri",
		Email:     "selim@example.com",
		Credential: &userapp.CredentialDTO{
			Username: "selimhorri",
			Password: "secret",
		},
	})
	require.NoError(t, err)
	require.NotNil(t, saved.Credential)
	assert.Empty(t, saved.Credential.Password)

	found, err := users.FindByUsername(ctx, "selimhorri")
	require.NoError(t, err)
	assert.Equal(t, saved.UserID, found.UserID)
	assert.Equal(t, "ROLE_USER", found.Credential.RoleBasedAuthority)

	_, err = users.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
