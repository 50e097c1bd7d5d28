package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	favouriteapp "github.com/ecommerce/backend/internal/application/favourite"
	paymentapp "github.com/ecommerce/backend/internal/application/payment"
	"github.com/ecommerce/backend/internal/application/records"
	shippingapp "github.com/ecommerce/backend/internal/application/shipping"
	"github.com/ecommerce/backend/internal/domain/favourite"
	"github.com/ecommerce/backend/internal/domain/payment"
	"github.com/ecommerce/backend/internal/domain/shared"
	"github.com/ecommerce/backend/internal/domain/shipping"
	"github.com/ecommerce/backend/internal/infrastructure/persistence"
	"github.com/ecommerce/backend/internal/interfaces/http/dto"
	"github.com/ecommerce/backend/internal/interfaces/http/middleware"
	"github.com/ecommerce/backend/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type registrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

func newTestRouter(prefix string, h registrar) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	h.RegisterRoutes(r.Group(prefix))
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp
}

var likeDate = time.Date(2024, 1, 1, 10, 15, 0, 123456000, time.UTC)

func favouriteRouter(t *testing.T, resolver *testutil.StubResolver) *gin.Engine {
	t.Helper()
	store := persistence.NewFavouriteStore(nil)
	_, err := store.Put(context.Background(), &favourite.Favourite{UserID: 5, ProductID: 7, LikeDate: likeDate})
	require.NoError(t, err)

	svc := favouriteapp.NewFavouriteService(store, resolver)
	return newTestRouter("/favourite-service/api/favourites", NewEntityHandler[favourite.Key, favouriteapp.FavouriteDTO](svc, FavouriteKeys()))
}

func healthyResolver() *testutil.StubResolver {
	return testutil.NewStubResolver().
		Add(records.UserService, 5, &records.User{UserID: 5, FirstName: "Selim"}).
		Add(records.ProductService, 7, &records.Product{ProductID: 7, ProductTitle: "asus"})
}

func TestEntityHandler_FindAll(t *testing.T) {
	r := favouriteRouter(t, healthyResolver())

	w := do(r, http.MethodGet, "/favourite-service/api/favourites", "")

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Collection []favouriteapp.FavouriteDTO `json:"collection"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Collection, 1)
	assert.Equal(t, "Selim", body.Collection[0].User.FirstName)
	assert.Equal(t, "asus", body.Collection[0].Product.ProductTitle)
}

func TestEntityHandler_FindAllEmpty(t *testing.T) {
	svc := favouriteapp.NewFavouriteService(persistence.NewFavouriteStore(nil), healthyResolver())
	r := newTestRouter("/api/favourites", NewEntityHandler[favourite.Key, favouriteapp.FavouriteDTO](svc, FavouriteKeys()))

	w := do(r, http.MethodGet, "/api/favourites", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"collection":[]}`, w.Body.String())
}

func TestEntityHandler_FindByCompositeKey(t *testing.T) {
	r := favouriteRouter(t, healthyResolver())

	w := do(r, http.MethodGet, "/favourite-service/api/favourites/5/7/01-01-2024__10:15:00:123456", "")

	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, float64(5), got["userId"])
	assert.Equal(t, "01-01-2024__10:15:00:123456", got["likeDate"])
	assert.NotContains(t, got, "success", "single reads render the bare object")
}

func TestEntityHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		resolver   *testutil.StubResolver
		path       string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "absent key",
			resolver:   healthyResolver(),
			path:       "/favourite-service/api/favourites/5/7/02-01-2024__10:15:00:000000",
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "bad like date",
			resolver:   healthyResolver(),
			path:       "/favourite-service/api/favourites/5/7/yesterday",
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name:       "bad user id",
			resolver:   healthyResolver(),
			path:       "/favourite-service/api/favourites/abc/7/01-01-2024__10:15:00:123456",
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name:       "product service down",
			resolver:   healthyResolver().Down(records.ProductService),
			path:       "/favourite-service/api/favourites/5/7/01-01-2024__10:15:00:123456",
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "REMOTE_UNAVAILABLE",
		},
		{
			name: "user gone",
			resolver: testutil.NewStubResolver().
				Add(records.ProductService, 7, &records.Product{ProductID: 7}),
			path:       "/favourite-service/api/favourites/5/7/01-01-2024__10:15:00:123456",
			wantStatus: http.StatusFailedDependency,
			wantCode:   "REMOTE_RECORD_MISSING",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := favouriteRouter(t, tt.resolver)

			w := do(r, http.MethodGet, tt.path, "")

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeError(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, w.Header().Get(middleware.RequestIDHeader), resp.Error.RequestID)
		})
	}
}

func TestEntityHandler_SaveAndDelete(t *testing.T) {
	resolver := healthyResolver()
	store := persistence.NewFavouriteStore(nil)
	svc := favouriteapp.NewFavouriteService(store, resolver)
	r := newTestRouter("/api/favourites", NewEntityHandler[favourite.Key, favouriteapp.FavouriteDTO](svc, FavouriteKeys()))

	w := do(r, http.MethodPost, "/api/favourites", `{
		"likeDate": "01-01-2024__10:15:00:123456",
		"user": {"userId": 5, "firstName": "Selim"},
		"product": {"productId": 7}
	}`)

	require.Equal(t, http.StatusOK, w.Code)
	var saved favouriteapp.FavouriteDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	assert.Equal(t, 5, saved.UserID)
	assert.Equal(t, "Selim", saved.User.FirstName)
	assert.Zero(t, resolver.Calls(records.UserService), "echo writes do no lookups")

	w = do(r, http.MethodDelete, "/api/favourites/5/7/01-01-2024__10:15:00:123456", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Body.String())

	// deleting again is a no-op
	w = do(r, http.MethodDelete, "/api/favourites/5/7/01-01-2024__10:15:00:123456", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEntityHandler_SaveRejectsBadBodies(t *testing.T) {
	svc := favouriteapp.NewFavouriteService(persistence.NewFavouriteStore(nil), healthyResolver())
	r := newTestRouter("/api/favourites", NewEntityHandler[favourite.Key, favouriteapp.FavouriteDTO](svc, FavouriteKeys()))

	t.Run("malformed json", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/favourites", `{"userId": `)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, w).Error.Code)
	})

	t.Run("contradicting ids", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/favourites", `{
			"userId": 5, "productId": 7, "likeDate": "01-01-2024__10:15:00:123456",
			"user": {"userId": 6}
		}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_INPUT", decodeError(t, w).Error.Code)
	})
}

func TestEntityHandler_ShippingKeys(t *testing.T) {
	store := persistence.NewOrderItemStore(nil)
	_, err := store.Put(context.Background(), &shipping.OrderItem{ProductID: 3, OrderID: 9, OrderedQuantity: 2})
	require.NoError(t, err)
	resolver := testutil.NewStubResolver().
		Add(records.ProductService, 3, &records.Product{ProductID: 3}).
		Add(records.OrderService, 9, &records.Order{OrderID: 9})
	svc := shippingapp.NewOrderItemService(store, resolver)
	r := newTestRouter("/shipping-service/api/shippings", NewEntityHandler[shipping.Key, shippingapp.OrderItemDTO](svc, ShippingKeys()))

	w := do(r, http.MethodGet, "/shipping-service/api/shippings/9/3", "")
	require.Equal(t, http.StatusOK, w.Code)
	var item shippingapp.OrderItemDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, 9, item.OrderID)
	assert.Equal(t, 3, item.ProductID)

	// path order is orderId then productId
	w = do(r, http.MethodGet, "/shipping-service/api/shippings/3/9", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPut, "/shipping-service/api/shippings/9/3", `{"orderedQuantity": 5}`)
	require.Equal(t, http.StatusOK, w.Code)
	stored, err := store.FindByKey(context.Background(), shipping.Key{ProductID: 3, OrderID: 9})
	require.NoError(t, err)
	assert.Equal(t, 5, stored.OrderedQuantity)
}

func TestEntityHandler_UpdateByIDMissing(t *testing.T) {
	store := persistence.NewPaymentStore(nil)
	svc := paymentapp.NewPaymentService(store, testutil.NewStubResolver())
	r := newTestRouter("/api/payments", NewEntityHandler[shared.IntKey, paymentapp.PaymentDTO](svc, IntKeys("paymentId")))

	w := do(r, http.MethodPut, "/api/payments/4", `{"isPayed": true, "paymentStatus": "COMPLETED", "orderId": 1}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decodeError(t, w).Error.Message, "payment")
	all, err := store.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestEntityHandler_ContractViolation(t *testing.T) {
	store := persistence.NewPaymentStore(nil)
	_, err := store.Put(context.Background(), &payment.Payment{OrderID: 1, PaymentStatus: payment.StatusNotStarted})
	require.NoError(t, err)
	// the order service answers with a different order
	resolver := testutil.NewStubResolver().Add(records.OrderService, 1, &records.Order{OrderID: 2})
	svc := paymentapp.NewPaymentService(store, resolver)
	r := newTestRouter("/api/payments", NewEntityHandler[shared.IntKey, paymentapp.PaymentDTO](svc, IntKeys("paymentId")))

	w := do(r, http.MethodGet, "/api/payments", "")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "REMOTE_CONTRACT_VIOLATION", decodeError(t, w).Error.Code)
}
