package iorderrepo

import (
	"context"

	"github.com/comandalivre/opsdesk/internal/service/models/order"
)

// IOrderRepository is an interface for the order postgres repository.
type IOrderRepository interface {
	List(ctx context.Context) ([]order.Order, error)
	UpdateFields(ctx context.Context, id int64, fields order.UpdateFields) error
	Delete(ctx context.Context, id int64) error
}
