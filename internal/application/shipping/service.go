package shipping

import (
	"github.com/ecommerce/backend/internal/application/enrichment"
	"github.com/ecommerce/backend/internal/application/records"
	"github.com/ecommerce/backend/internal/domain/shared"
	"github.com/ecommerce/backend/internal/domain/shipping"
)

// OrderItemService serves order items enriched with product and order
type OrderItemService = enrichment.Service[shipping.Key, shipping.OrderItem, OrderItemDTO]

// Descriptor describes order items keyed by (productId, orderId)
func Descriptor() enrichment.Descriptor[shipping.Key, shipping.OrderItem, OrderItemDTO] {
	return enrichment.Descriptor[shipping.Key, shipping.OrderItem, OrderItemDTO]{
		Entity:  "orderItem",
		Key:     func(i *shipping.OrderItem) shipping.Key { return i.Key() },
		ToDTO:   ToOrderItemDTO,
		FromDTO: FromOrderItemDTO,
		Merge: func(existing, incoming *shipping.OrderItem) *shipping.OrderItem {
			merged := *existing
			merged.OrderedQuantity = incoming.OrderedQuantity
			return &merged
		},
		References: []enrichment.Reference[shipping.OrderItem, OrderItemDTO]{
			enrichment.Ref("product",
				enrichment.RemoteTarget{Service: records.ProductService, Resource: records.ProductResource},
				func(i *shipping.OrderItem) int { return i.ProductID },
				func(d *OrderItemDTO) **records.Product { return &d.Product }),
			enrichment.Ref("order",
				enrichment.RemoteTarget{Service: records.OrderService, Resource: records.OrderResource},
				func(i *shipping.OrderItem) int { return i.OrderID },
				func(d *OrderItemDTO) **records.Order { return &d.Order }),
		},
		Delete: enrichment.DeleteDirect,
		Write:  enrichment.WriteEcho,
	}
}

// NewOrderItemService creates a new OrderItemService
func NewOrderItemService(store shared.RecordStore[shipping.Key, shipping.OrderItem], resolver enrichment.Resolver, opts ...enrichment.Option) *OrderItemService {
	return enrichment.NewService(Descriptor(), store, resolver, opts...)
}
