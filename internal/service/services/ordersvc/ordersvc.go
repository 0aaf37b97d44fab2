package ordersvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/comandalivre/opsdesk/internal/dal/interfaces/iorderitemrepo"
	"github.com/comandalivre/opsdesk/internal/dal/interfaces/iorderrepo"
	"github.com/comandalivre/opsdesk/internal/dal/postgres"
	"github.com/comandalivre/opsdesk/internal/dal/uow"
	orderrepo "github.com/comandalivre/opsdesk/internal/dal/repositories/order/postgres"
	orderitemrepo "github.com/comandalivre/opsdesk/internal/dal/repositories/orderitem/postgres"
	"github.com/comandalivre/opsdesk/internal/service/models/order"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/singleflight"
)

// ErrEmptyUpdate is returned when an update carries no fields.
var ErrEmptyUpdate = errors.New("no fields to update")

// Confirmer is the human confirmation gate required before irreversible
// operations. A false answer abandons the operation without error.
type Confirmer interface {
	Confirm(title, message string) bool
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorderrepo.IOrderRepository
	OrderItemRepository() iorderitemrepo.IOrderItemRepository
}

// OrderService owns the in-memory order snapshot and every status and
// payment mutation. Mutations are written to the store first; the
// snapshot is only refreshed after a successful write, so a failed write
// leaves the previously fetched state untouched.
type OrderService struct {
	orderRepo iorderrepo.IOrderRepository
	itemRepo  iorderitemrepo.IOrderItemRepository
	newUOW    func() unitOfWork

	mu       sync.RWMutex
	snapshot []order.Order

	// per-order mutexes so unrelated orders can be mutated concurrently
	locks sync.Map

	refreshGroup singleflight.Group
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.orderRepo == nil || s.itemRepo == nil || s.newUOW == nil {
		panic("ordersvc: repositories are not configured")
	}

	return s
}

// WithPostgresClient wires the service to the Postgres repositories.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.orderRepo = orderrepo.NewPostgresOrderRepository(pgClient.Pool())
		s.itemRepo = orderitemrepo.NewPostgresOrderItemRepository(pgClient.Pool())
		s.newUOW = func() unitOfWork {
			return uow.NewUnitOfWork(pgClient)
		}
	}
}

// WithRepositories sets the repositories directly.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRepositories(
	orderRepo iorderrepo.IOrderRepository,
	itemRepo iorderitemrepo.IOrderItemRepository,
	newUOW func() unitOfWork,
) option {
	return func(s *OrderService) {
		s.orderRepo = orderRepo
		s.itemRepo = itemRepo
		s.newUOW = newUOW
	}
}

// WithUnitOfWork sets the unit of work factory.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWork(newUOW func() unitOfWork) option {
	return func(s *OrderService) {
		s.newUOW = newUOW
	}
}

func (s *OrderService) lockOrder(id int64) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// Refresh replaces the whole in-memory snapshot with a fresh read of the
// store. Concurrent callers are coalesced into a single store read;
// whichever read completes last wins.
func (s *OrderService) Refresh(ctx context.Context) error {
	_, err, _ := s.refreshGroup.Do("refresh", func() (interface{}, error) {
		ctx, span := otel.Tracer("ordersvc").Start(ctx, "OrderService.Refresh")
		defer span.End()

		orders, err := s.orderRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list orders: %w", err)
		}

		ids := make([]int64, 0, len(orders))
		for _, o := range orders {
			ids = append(ids, o.ID)
		}

		items, err := s.itemRepo.ListByOrders(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to list order items: %w", err)
		}

		for i := range orders {
			for _, item := range items {
				if item.OrderID == orders[i].ID {
					orders[i].OrderItems = append(orders[i].OrderItems, item)
				}
			}
		}

		s.mu.Lock()
		s.snapshot = orders
		s.mu.Unlock()

		return nil, nil
	})

	return err
}

// Orders returns a copy of the current snapshot.
func (s *OrderService) Orders() []order.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]order.Order, len(s.snapshot))
	copy(out, s.snapshot)

	return out
}

// Order returns one order from the snapshot.
func (s *OrderService) Order(id int64) (order.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.snapshot {
		if o.ID == id {
			return o, true
		}
	}

	return order.Order{}, false
}

// Update applies a status and/or payment status change as one atomic
// write. Any target status is accepted, including backward moves; the
// trash-restore flow depends on cancelled orders going back to pending.
func (s *OrderService) Update(ctx context.Context, id int64, fields order.UpdateFields) error {
	ctx, span := otel.Tracer("ordersvc").Start(ctx, "OrderService.Update")
	defer span.End()

	if fields.Empty() {
		return ErrEmptyUpdate
	}

	lock := s.lockOrder(id)
	lock.Lock()
	defer lock.Unlock()

	if err := s.orderRepo.UpdateFields(ctx, id, fields); err != nil {
		slog.Error("Failed to update order", "order_id", id, "error", err)

		return fmt.Errorf("failed to update order %d: %w", id, err)
	}

	if err := s.Refresh(ctx); err != nil {
		// The write succeeded; a stale snapshot is superseded by the
		// next refresh cycle.
		slog.Warn("Refresh after update failed", "order_id", id, "error", err)
	}

	return nil
}

// UpdateStatus changes the workflow status of one order.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status order.Status) error {
	return s.Update(ctx, id, order.UpdateFields{Status: &status})
}

// UpdatePayment toggles the payment status of one order.
func (s *OrderService) UpdatePayment(ctx context.Context, id int64, paymentStatus order.PaymentStatus) error {
	return s.Update(ctx, id, order.UpdateFields{PaymentStatus: &paymentStatus})
}

// Restore moves a cancelled order back to pending.
func (s *OrderService) Restore(ctx context.Context, id int64) error {
	return s.UpdateStatus(ctx, id, order.StatusPending)
}

// Delete permanently removes an order and its items. The confirmation
// gate must answer true first; a declined gate abandons the operation
// silently.
func (s *OrderService) Delete(ctx context.Context, id int64, confirm Confirmer) error {
	ctx, span := otel.Tracer("ordersvc").Start(ctx, "OrderService.Delete")
	defer span.End()

	if confirm == nil || !confirm.Confirm(
		"Delete order",
		"This permanently removes the order and cannot be undone. Continue?",
	) {
		slog.Info("Order delete not confirmed, abandoning", "order_id", id)

		return nil
	}

	lock := s.lockOrder(id)
	lock.Lock()
	defer lock.Unlock()

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin delete transaction: %w", err)
	}

	if err := work.OrderItemRepository().DeleteByOrder(ctx, id); err != nil {
		if rbErr := work.Rollback(ctx); rbErr != nil {
			slog.Error("Rollback failed", "order_id", id, "error", rbErr)
		}

		return fmt.Errorf("failed to delete order items for %d: %w", id, err)
	}

	if err := work.OrderRepository().Delete(ctx, id); err != nil {
		if rbErr := work.Rollback(ctx); rbErr != nil {
			slog.Error("Rollback failed", "order_id", id, "error", rbErr)
		}

		return fmt.Errorf("failed to delete order %d: %w", id, err)
	}

	if err := work.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit delete of order %d: %w", id, err)
	}

	// The lock entry stays in the map: removing it while the mutex is
	// still held would let a racing update mint a fresh mutex and run
	// alongside the tail of the delete.

	if err := s.Refresh(ctx); err != nil {
		slog.Warn("Refresh after delete failed", "order_id", id, "error", err)
	}

	return nil
}
