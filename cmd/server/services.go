package main

import (
	"fmt"

	catalogapp "github.com/ecommerce/backend/internal/application/catalog"
	"github.com/ecommerce/backend/internal/application/enrichment"
	favouriteapp "github.com/ecommerce/backend/internal/application/favourite"
	orderapp "github.com/ecommerce/backend/internal/application/order"
	paymentapp "github.com/ecommerce/backend/internal/application/payment"
	shippingapp "github.com/ecommerce/backend/internal/application/shipping"
	userapp "github.com/ecommerce/backend/internal/application/user"
	"github.com/ecommerce/backend/internal/domain/favourite"
	"github.com/ecommerce/backend/internal/domain/shared"
	"github.com/ecommerce/backend/internal/domain/shipping"
	"github.com/ecommerce/backend/internal/infrastructure/persistence"
	"github.com/ecommerce/backend/internal/interfaces/http/handler"
	"github.com/ecommerce/backend/internal/interfaces/http/router"
)

// mountService registers the resources owned by service on r. A nil db keeps
// records in memory.
func mountService(r *router.Router, service string, db *persistence.Database, resolver enrichment.Resolver, opts ...enrichment.Option) error {
	switch service {
	case "user-service":
		users := userapp.NewUserService(persistence.NewUserRepository(db), opts...)
		r.Register("/api/users", handler.NewUserHandler(users))

	case "product-service":
		products := catalogapp.NewProductService(persistence.NewProductStore(db), opts...)
		categories := catalogapp.NewCategoryService(persistence.NewCategoryStore(db), opts...)
		r.Register("/api/products", handler.NewEntityHandler[shared.IntKey, catalogapp.ProductDTO](products, handler.IntKeys("productId"))).
			Register("/api/categories", handler.NewEntityHandler[shared.IntKey, catalogapp.CategoryDTO](categories, handler.IntKeys("categoryId")))

	case "order-service":
		orders := orderapp.NewOrderService(persistence.NewOrderStore(db), opts...)
		carts := orderapp.NewCartService(persistence.NewCartStore(db), resolver, opts...)
		r.Register("/api/orders", handler.NewEntityHandler[shared.IntKey, orderapp.OrderDTO](orders, handler.IntKeys("orderId"))).
			Register("/api/carts", handler.NewEntityHandler[shared.IntKey, orderapp.CartDTO](carts, handler.IntKeys("cartId")))

	case "payment-service":
		payments := paymentapp.NewPaymentService(persistence.NewPaymentStore(db), resolver, opts...)
		r.Register("/api/payments", handler.NewEntityHandler[shared.IntKey, paymentapp.PaymentDTO](payments, handler.IntKeys("paymentId")))

	case "shipping-service":
		items := shippingapp.NewOrderItemService(persistence.NewOrderItemStore(db), resolver, opts...)
		r.Register("/api/shippings", handler.NewEntityHandler[shipping.Key, shippingapp.OrderItemDTO](items, handler.ShippingKeys()))

	case "favourite-service":
		favourites := favouriteapp.NewFavouriteService(persistence.NewFavouriteStore(db), resolver, opts...)
		r.Register("/api/favourites", handler.NewEntityHandler[favourite.Key, favouriteapp.FavouriteDTO](favourites, handler.FavouriteKeys()))

	default:
		return fmt.Errorf("unknown service %q", service)
	}
	return nil
}
