package favourite

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ecommerce/backend/internal/application/enrichment"
	"github.com/ecommerce/backend/internal/application/records"
	"github.com/ecommerce/backend/internal/domain/favourite"
	"github.com/ecommerce/backend/internal/domain/shared"
	"github.com/ecommerce/backend/internal/infrastructure/persistence"
	"github.com/ecommerce/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	likeDate      = time.Date(2024, 1, 1, 10, 15, 0, 123456000, time.UTC)
	userTarget    = enrichment.RemoteTarget{Service: records.UserService, Resource: records.UsersResource}
	productTarget = enrichment.RemoteTarget{Service: records.ProductService, Resource: records.ProductResource}
)

func seeded(t *testing.T) (shared.RecordStore[favourite.Key, favourite.Favourite], favourite.Key) {
	t.Helper()
	store := persistence.NewFavouriteStore(nil)
	f, err := store.Put(context.Background(), &favourite.Favourite{UserID: 5, ProductID: 7, LikeDate: likeDate})
	require.NoError(t, err)
	return store, f.Key()
}

func TestFavouriteService_FindByID(t *testing.T) {
	store, key := seeded(t)
	resolver := new(testutil.MockResolver)
	resolver.On("Resolve", mock.Anything, userTarget, "5", mock.Anything).
		Run(testutil.Fill(records.User{UserID: 5, FirstName: "Selim"})).Return(nil).Once()
	resolver.On("Resolve", mock.Anything, productTarget, "7", mock.Anything).
		Run(testutil.Fill(records.Product{ProductID: 7, ProductTitle: "asus"})).Return(nil).Once()
	svc := NewFavouriteService(store, resolver)

	dto, err := svc.FindByID(context.Background(), key)

	require.NoError(t, err)
	assert.Equal(t, "Selim", dto.User.FirstName)
	assert.Equal(t, "asus", dto.Product.ProductTitle)
	assert.Equal(t, dto.UserID, dto.User.UserID)
	assert.Equal(t, dto.ProductID, dto.Product.ProductID)
	assert.True(t, likeDate.Equal(dto.LikeDate.Time))
	resolver.AssertExpectations(t)
}

func TestFavouriteService_FindByIDFailures(t *testing.T) {
	store, key := seeded(t)

	t.Run("absent key", func(t *testing.T) {
		resolver := new(testutil.MockResolver)
		svc := NewFavouriteService(store, resolver)

		_, err := svc.FindByID(context.Background(), favourite.NewKey(5, 7, likeDate.Add(time.Microsecond)))

		var nf *shared.EntityNotFoundError
		require.True(t, errors.As(err, &nf))
		assert.Equal(t, "userId=5,productId=7,likeDate=01-01-2024__10:15:00:123457", nf.Key)
		resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unavailable product service", func(t *testing.T) {
		svc := NewFavouriteService(store, testutil.NewStubResolver().
			Add(records.UserService, 5, &records.User{UserID: 5}).
			Down(records.ProductService))

		_, err := svc.FindByID(context.Background(), key)

		assert.ErrorIs(t, err, shared.ErrRemoteUnavailable)
		assert.Contains(t, err.Error(), "favourite.FindByID")
	})
}

func TestFavouriteService_SaveEchoes(t *testing.T) {
	store := persistence.NewFavouriteStore(nil)
	resolver := new(testutil.MockResolver)
	svc := NewFavouriteService(store, resolver)
	user := &records.User{UserID: 5, FirstName: "Selim"}
	product := &records.Product{ProductID: 7, ProductTitle: "asus"}

	saved, err := svc.Save(context.Background(), &FavouriteDTO{
		LikeDate: records.NewDateTime(likeDate),
		User:     user,
		Product:  product,
	})

	require.NoError(t, err)
	assert.Equal(t, 5, saved.UserID)
	assert.Equal(t, 7, saved.ProductID)
	assert.Same(t, user, saved.User)
	assert.Same(t, product, saved.Product)
	resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	_, err = store.FindByKey(context.Background(), favourite.NewKey(5, 7, likeDate))
	assert.NoError(t, err)
}

func TestFavouriteService_SaveValidation(t *testing.T) {
	tests := []struct {
		name string
		dto  *FavouriteDTO
	}{
		{"nil body", nil},
		{"missing like date", &FavouriteDTO{UserID: 5, ProductID: 7}},
		{"missing user", &FavouriteDTO{ProductID: 7, LikeDate: records.NewDateTime(likeDate)}},
		{"contradicting product", &FavouriteDTO{
			UserID: 5, ProductID: 7, LikeDate: records.NewDateTime(likeDate),
			Product: &records.Product{ProductID: 8},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := persistence.NewFavouriteStore(nil)
			svc := NewFavouriteService(store, new(testutil.MockResolver))

			_, err := svc.Save(context.Background(), tt.dto)

			assert.ErrorIs(t, err, shared.ErrInvalidInput)
			all, _ := store.FindAll(context.Background())
			assert.Empty(t, all)
		})
	}
}

func TestFavouriteService_DeleteByID(t *testing.T) {
	store, key := seeded(t)
	svc := NewFavouriteService(store, new(testutil.MockResolver))

	require.NoError(t, svc.DeleteByID(context.Background(), key))
	require.NoError(t, svc.DeleteByID(context.Background(), key))

	all, err := store.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFavouriteDTO_JSON(t *testing.T) {
	var dto FavouriteDTO
	require.NoError(t, json.Unmarshal([]byte(`{
		"userId": 5,
		"productId": 7,
		"likeDate": "01-01-2024__10:15:00:123456"
	}`), &dto))

	f, err := FromFavouriteDTO(&dto)
	require.NoError(t, err)
	assert.Equal(t, favourite.NewKey(5, 7, likeDate), f.Key())

	data, err := json.Marshal(ToFavouriteDTO(f))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"likeDate":"01-01-2024__10:15:00:123456"`)
	assert.Contains(t, string(data), `"user":{"userId":5}`)
}
