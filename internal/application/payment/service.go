package payment

import (
	"github.com/ecommerce/backend/internal/application/enrichment"
	"github.com/ecommerce/backend/internal/application/records"
	"github.com/ecommerce/backend/internal/domain/payment"
	"github.com/ecommerce/backend/internal/domain/shared"
)

// PaymentService serves payments enriched with their order
type PaymentService = enrichment.Service[shared.IntKey, payment.Payment, PaymentDTO]

// Descriptor describes payments. Any failure to resolve the order fails the read.
func Descriptor() enrichment.Descriptor[shared.IntKey, payment.Payment, PaymentDTO] {
	return enrichment.Descriptor[shared.IntKey, payment.Payment, PaymentDTO]{
		Entity:  "payment",
		Key:     func(p *payment.Payment) shared.IntKey { return p.Key() },
		ToDTO:   ToPaymentDTO,
		FromDTO: FromPaymentDTO,
		Merge: func(existing, incoming *payment.Payment) *payment.Payment {
			merged := *existing
			merged.Merge(incoming)
			return &merged
		},
		References: []enrichment.Reference[payment.Payment, PaymentDTO]{
			enrichment.Ref("order",
				enrichment.RemoteTarget{Service: records.OrderService, Resource: records.OrderResource},
				func(p *payment.Payment) int { return p.OrderID },
				func(d *PaymentDTO) **records.Order { return &d.Order }),
		},
		Delete: enrichment.DeleteDirect,
		Write:  enrichment.WriteEcho,
	}
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(store shared.RecordStore[shared.IntKey, payment.Payment], resolver enrichment.Resolver, opts ...enrichment.Option) *PaymentService {
	return enrichment.NewService(Descriptor(), store, resolver, opts...)
}
