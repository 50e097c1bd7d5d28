package payment

import (
	"github.com/ecommerce/backend/internal/domain/shared"
)

// PaymentStatus tracks the lifecycle of a payment
type PaymentStatus string

const (
	StatusNotStarted PaymentStatus = "NOT_STARTED"
	StatusInProgress PaymentStatus = "IN_PROGRESS"
	StatusCompleted  PaymentStatus = "COMPLETED"
)

// IsValid reports whether s is a known status
func (s PaymentStatus) IsValid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Payment settles an order owned by the order service. Only the order id is stored.
type Payment struct {
	PaymentID     int           `gorm:"column:payment_id;primaryKey;autoIncrement"`
	OrderID       int           `gorm:"column:order_id;not null;index" validate:"required,gt=0"`
	IsPayed       bool          `gorm:"column:is_payed;not null;default:false"`
	PaymentStatus PaymentStatus `gorm:"column:payment_status;type:varchar(20);not null;default:'NOT_STARTED'"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// Key returns the primary identity
func (p *Payment) Key() shared.IntKey {
	return shared.IntKey(p.PaymentID)
}

// Normalize defaults and checks the status
func (p *Payment) Normalize() error {
	if p.PaymentStatus == "" {
		p.PaymentStatus = StatusNotStarted
	}
	if !p.PaymentStatus.IsValid() {
		return shared.NewValidationError("paymentStatus", "unknown status "+string(p.PaymentStatus))
	}
	return nil
}

// Merge copies incoming over p. IsPayed is always taken from incoming.
func (p *Payment) Merge(incoming *Payment) {
	if incoming.OrderID != 0 {
		p.OrderID = incoming.OrderID
	}
	p.IsPayed = incoming.IsPayed
	if incoming.PaymentStatus != "" {
		p.PaymentStatus = incoming.PaymentStatus
	}
}
