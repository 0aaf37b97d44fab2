package order

import (
	"database/sql/driver"
	"errors"
	"time"

	"github.com/comandalivre/opsdesk/internal/service/models/orderitem"
)

// Status is the kitchen/ops workflow stage of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var ErrInvalidStatus = errors.New("invalid order status")

func (s Status) String() string {
	return string(s)
}

func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// PaymentStatus tracks whether an order has been paid. It is orthogonal
// to Status: a cancelled order can be paid, a completed one unpaid.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

var ErrInvalidPaymentStatus = errors.New("invalid payment status")

func (p PaymentStatus) String() string {
	return string(p)
}

func (p PaymentStatus) Value() (driver.Value, error) {
	return p.String(), nil
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentPaid:
		return PaymentStatus(s), nil
	default:
		return "", ErrInvalidPaymentStatus
	}
}

// Order represents one customer transaction in the system.
type Order struct {
	ID            int64                 `json:"id"`
	DisplayID     string                `json:"displayId"`
	CustomerName  string                `json:"customerName"`
	Phone         string                `json:"phone"`
	Address       string                `json:"address"`
	Neighborhood  string                `json:"neighborhood"`
	PostalCode    string                `json:"postalCode,omitempty"`
	Pickup        bool                  `json:"pickup"`
	TotalCents    int64                 `json:"totalCents"`
	Status        Status                `json:"status"`
	PaymentStatus PaymentStatus         `json:"paymentStatus"`
	PaymentMethod string                `json:"paymentMethod"`
	Observation   string                `json:"observation,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
	OrderItems    []orderitem.OrderItem `json:"orderItems"`
}

// UpdateFields carries the mutable fields of an order. Nil fields are
// left untouched; both set fields travel in a single write.
type UpdateFields struct {
	Status        *Status        `json:"status,omitempty"`
	PaymentStatus *PaymentStatus `json:"paymentStatus,omitempty"`
}

// Empty reports whether the update would change nothing.
func (f UpdateFields) Empty() bool {
	return f.Status == nil && f.PaymentStatus == nil
}
