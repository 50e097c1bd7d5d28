package persistence

import (
	"context"
	"strings"

	"github.com/ecommerce/backend/internal/domain/catalog"
	"github.com/ecommerce/backend/internal/domain/favourite"
	"github.com/ecommerce/backend/internal/domain/order"
	"github.com/ecommerce/backend/internal/domain/payment"
	"github.com/ecommerce/backend/internal/domain/shared"
	"github.com/ecommerce/backend/internal/domain/shipping"
	"github.com/ecommerce/backend/internal/domain/user"
)

// The store constructors below return a GORM-backed store when db is set and
// an in-process MemoryStore when db is nil.

// Models returns the GORM models owned by service, in dependency order
func Models(service string) []any {
	switch service {
	case "user-service":
		return []any{&user.User{}, &user.Credential{}}
	case "product-service":
		return []any{&catalog.Category{}, &catalog.Product{}}
	case "order-service":
		return []any{&order.Cart{}, &order.Order{}}
	case "payment-service":
		return []any{&payment.Payment{}}
	case "shipping-service":
		return []any{&shipping.OrderItem{}}
	case "favourite-service":
		return []any{&favourite.Favourite{}}
	}
	return nil
}

func intStore[E any](db *Database, column string, key func(*E) shared.IntKey, assign func(*E, int), opts ...GormStoreOption) shared.RecordStore[shared.IntKey, E] {
	if db == nil {
		return NewMemoryStore(key, assign)
	}
	opts = append(opts, WithOrder(column+" ASC"))
	return NewGormStore(db.DB, key, IntKeyColumn(column), opts...)
}

// NewCategoryStore creates the category store
func NewCategoryStore(db *Database) shared.RecordStore[shared.IntKey, catalog.Category] {
	return intStore(db, "category_id",
		func(c *catalog.Category) shared.IntKey { return c.Key() },
		func(c *catalog.Category, id int) { c.CategoryID = id },
	)
}

// NewProductStore creates the product store; reads carry the product's category
func NewProductStore(db *Database) shared.RecordStore[shared.IntKey, catalog.Product] {
	return intStore(db, "product_id",
		func(p *catalog.Product) shared.IntKey { return p.Key() },
		func(p *catalog.Product, id int) { p.ProductID = id },
		WithPreload("Category"),
	)
}

// NewCartStore creates the cart store
func NewCartStore(db *Database) shared.RecordStore[shared.IntKey, order.Cart] {
	return intStore(db, "cart_id",
		func(c *order.Cart) shared.IntKey { return c.Key() },
		func(c *order.Cart, id int) { c.CartID = id },
	)
}

// NewOrderStore creates the order store; reads carry the order's cart
func NewOrderStore(db *Database) shared.RecordStore[shared.IntKey, order.Order] {
	return intStore(db, "order_id",
		func(o *order.Order) shared.IntKey { return o.Key() },
		func(o *order.Order, id int) { o.OrderID = id },
		WithPreload("Cart"),
	)
}

// NewPaymentStore creates the payment store
func NewPaymentStore(db *Database) shared.RecordStore[shared.IntKey, payment.Payment] {
	return intStore(db, "payment_id",
		func(p *payment.Payment) shared.IntKey { return p.Key() },
		func(p *payment.Payment, id int) { p.PaymentID = id },
	)
}

// NewOrderItemStore creates the order item store keyed by (productId, orderId)
func NewOrderItemStore(db *Database) shared.RecordStore[shipping.Key, shipping.OrderItem] {
	keyOf := func(i *shipping.OrderItem) shipping.Key { return i.Key() }
	if db == nil {
		return NewMemoryStore(keyOf, nil)
	}
	return NewGormStore(db.DB, keyOf,
		func(k shipping.Key) map[string]any {
			return map[string]any{"product_id": k.ProductID, "order_id": k.OrderID}
		},
		WithOrder("order_id ASC, product_id ASC"),
	)
}

// NewFavouriteStore creates the favourite store keyed by (userId, productId, likeDate)
func NewFavouriteStore(db *Database) shared.RecordStore[favourite.Key, favourite.Favourite] {
	keyOf := func(f *favourite.Favourite) favourite.Key { return f.Key() }
	if db == nil {
		return NewMemoryStore(keyOf, nil)
	}
	return NewGormStore(db.DB, keyOf,
		func(k favourite.Key) map[string]any {
			return map[string]any{"user_id": k.UserID, "product_id": k.ProductID, "like_date": k.LikeDate}
		},
		WithOrder("user_id ASC, product_id ASC, like_date ASC"),
	)
}

// NewUserRepository creates the user repository
func NewUserRepository(db *Database) user.UserRepository {
	if db == nil {
		return NewMemoryUserRepository()
	}
	return NewGormUserRepository(db.DB)
}

// MemoryUserRepository is the in-process user.UserRepository
type MemoryUserRepository struct {
	*MemoryStore[shared.IntKey, user.User]
}

// NewMemoryUserRepository creates an empty MemoryUserRepository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		MemoryStore: NewMemoryStore(
			func(u *user.User) shared.IntKey { return u.Key() },
			func(u *user.User, id int) {
				u.UserID = id
				if u.Credential != nil {
					u.Credential.UserID = id
				}
			},
		),
	}
}

// FindByUsername finds the user whose credential carries username
func (r *MemoryUserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	username = strings.TrimSpace(username)
	matches, err := r.Find(ctx, func(u *user.User) bool {
		return u.Credential != nil && u.Credential.Username == username
	})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, shared.ErrNotFound
	}
	return matches[0], nil
}
