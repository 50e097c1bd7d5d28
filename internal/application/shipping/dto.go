package shipping

import (
	"github.com/ecommerce/backend/internal/application/enrichment"
	"github.com/ecommerce/backend/internal/application/records"
	"github.com/ecommerce/backend/internal/domain/shipping"
)

// OrderItemDTO is the wire shape of an order item. Product and order are
// resolved from their owning services.
type OrderItemDTO struct {
	ProductID       int              `json:"productId"`
	OrderID         int              `json:"orderId"`
	OrderedQuantity int              `json:"orderedQuantity"`
	Product         *records.Product `json:"product,omitempty"`
	Order           *records.Order   `json:"order,omitempty"`
}

// ToOrderItemDTO converts a stored order item into its wire shape with stubs
func ToOrderItemDTO(i *shipping.OrderItem) *OrderItemDTO {
	return &OrderItemDTO{
		ProductID:       i.ProductID,
		OrderID:         i.OrderID,
		OrderedQuantity: i.OrderedQuantity,
		Product:         &records.Product{ProductID: i.ProductID},
		Order:           &records.Order{OrderID: i.OrderID},
	}
}

// FromOrderItemDTO keeps only the ids of the embedded product and order
func FromOrderItemDTO(dto *OrderItemDTO) (*shipping.OrderItem, error) {
	nestedProduct, nestedOrder := 0, 0
	if dto.Product != nil {
		nestedProduct = dto.Product.ProductID
	}
	if dto.Order != nil {
		nestedOrder = dto.Order.OrderID
	}
	productID, err := enrichment.ReconcileRef("productId", dto.ProductID, nestedProduct)
	if err != nil {
		return nil, err
	}
	orderID, err := enrichment.ReconcileRef("orderId", dto.OrderID, nestedOrder)
	if err != nil {
		return nil, err
	}
	return &shipping.OrderItem{
		ProductID:       productID,
		OrderID:         orderID,
		OrderedQuantity: dto.OrderedQuantity,
	}, nil
}
