package payment

import (
	"github.com/ecommerce/backend/internal/application/enrichment"
	"github.com/ecommerce/backend/internal/application/records"
	"github.com/ecommerce/backend/internal/domain/payment"
)

// PaymentDTO is the wire shape of a payment. Order is resolved from the
// order service.
type PaymentDTO struct {
	PaymentID     int            `json:"paymentId"`
	OrderID       int            `json:"orderId,omitempty"`
	IsPayed       bool           `json:"isPayed"`
	PaymentStatus string         `json:"paymentStatus"`
	Order         *records.Order `json:"order,omitempty"`
}

// ToPaymentDTO converts a stored payment into its wire shape with an order stub
func ToPaymentDTO(p *payment.Payment) *PaymentDTO {
	dto := &PaymentDTO{
		PaymentID:     p.PaymentID,
		OrderID:       p.OrderID,
		IsPayed:       p.IsPayed,
		PaymentStatus: string(p.PaymentStatus),
	}
	if p.OrderID != 0 {
		dto.Order = &records.Order{OrderID: p.OrderID}
	}
	return dto
}

// FromPaymentDTO keeps only the order id of the embedded order
func FromPaymentDTO(dto *PaymentDTO) (*payment.Payment, error) {
	nested := 0
	if dto.Order != nil {
		nested = dto.Order.OrderID
	}
	orderID, err := enrichment.ReconcileRef("orderId", dto.OrderID, nested)
	if err != nil {
		return nil, err
	}
	p := &payment.Payment{
		PaymentID:     dto.PaymentID,
		OrderID:       orderID,
		IsPayed:       dto.IsPayed,
		PaymentStatus: payment.PaymentStatus(dto.PaymentStatus),
	}
	if err := p.Normalize(); err != nil {
		return nil, err
	}
	return p, nil
}
