package iorderitemrepo

import (
	"context"

	"github.com/comandalivre/opsdesk/internal/service/models/orderitem"
)

// IOrderItemRepository is an interface for the order item postgres repository.
type IOrderItemRepository interface {
	ListByOrders(ctx context.Context, orderIDs []int64) ([]orderitem.OrderItem, error)
	DeleteByOrder(ctx context.Context, orderID int64) error
}
