package orderitem

import "time"

// OrderItem represents a line item within an order. Items are immutable
// after the order is created.
type OrderItem struct {
	ID             int64     `json:"id"`
	OrderID        int64     `json:"orderId"`
	ProductName    string    `json:"productName"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	Quantity       int       `json:"quantity"`
	CreatedAt      time.Time `json:"createdAt"`
}
