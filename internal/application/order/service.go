package order

import (
	"time"

	"github.com/ecommerce/backend/internal/application/enrichment"
	"github.com/ecommerce/backend/internal/application/records"
	"github.com/ecommerce/backend/internal/domain/order"
	"github.com/ecommerce/backend/internal/domain/shared"
)

// OrderService serves orders
type OrderService = enrichment.Service[shared.IntKey, order.Order, OrderDTO]

// CartService serves carts enriched with their user
type CartService = enrichment.Service[shared.IntKey, order.Cart, CartDTO]

// OrderDescriptor describes orders. now stamps orders saved without a date.
func OrderDescriptor(now func() time.Time) enrichment.Descriptor[shared.IntKey, order.Order, OrderDTO] {
	if now == nil {
		now = time.Now
	}
	return enrichment.Descriptor[shared.IntKey, order.Order, OrderDTO]{
		Entity: "order",
		Key:    func(o *order.Order) shared.IntKey { return o.Key() },
		ToDTO:  ToOrderDTO,
		FromDTO: func(dto *OrderDTO) (*order.Order, error) {
			o := fromOrderDTO(dto)
			if err := o.Normalize(now()); err != nil {
				return nil, err
			}
			o.OrderDate = shared.NormalizeTime(o.OrderDate)
			return o, nil
		},
		Merge: func(existing, incoming *order.Order) *order.Order {
			merged := *existing
			merged.Merge(incoming)
			return &merged
		},
		Delete: enrichment.DeleteLookupFirst,
		Write:  enrichment.WriteEcho,
	}
}

// CartDescriptor describes carts. A cart whose user no longer exists is
// still served, with a null user, and writes return the re-enriched cart.
func CartDescriptor() enrichment.Descriptor[shared.IntKey, order.Cart, CartDTO] {
	return enrichment.Descriptor[shared.IntKey, order.Cart, CartDTO]{
		Entity:  "cart",
		Key:     func(c *order.Cart) shared.IntKey { return c.Key() },
		ToDTO:   ToCartDTO,
		FromDTO: FromCartDTO,
		Merge: func(existing, incoming *order.Cart) *order.Cart {
			merged := *existing
			merged.Merge(incoming)
			return &merged
		},
		References: []enrichment.Reference[order.Cart, CartDTO]{
			enrichment.Ref("user",
				enrichment.RemoteTarget{Service: records.UserService, Resource: records.UsersResource},
				func(c *order.Cart) int { return c.UserID },
				func(d *CartDTO) **records.User { return &d.User },
				enrichment.WithPolicy(enrichment.NullOnMissing)),
		},
		Delete: enrichment.DeleteDirect,
		Write:  enrichment.WriteReenrich,
	}
}

// NewOrderService creates a new OrderService
func NewOrderService(store shared.RecordStore[shared.IntKey, order.Order], opts ...enrichment.Option) *OrderService {
	return enrichment.NewService(OrderDescriptor(time.Now), store, nil, opts...)
}

// NewCartService creates a new CartService
func NewCartService(store shared.RecordStore[shared.IntKey, order.Cart], resolver enrichment.Resolver, opts ...enrichment.Option) *CartService {
	return enrichment.NewService(CartDescriptor(), store, resolver, opts...)
}
