package ordersvc

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/comandalivre/opsdesk/internal/dal/interfaces/iorderitemrepo"
	"github.com/comandalivre/opsdesk/internal/dal/interfaces/iorderrepo"
	"github.com/comandalivre/opsdesk/internal/service/models/order"
	"github.com/comandalivre/opsdesk/internal/service/models/orderitem"
)

type fakeOrderRepo struct {
	mu        sync.Mutex
	orders    map[int64]order.Order
	listCalls int
	updates   []order.UpdateFields
	updateErr error
	deleted   []int64
	deleteErr error
}

func newFakeOrderRepo(orders ...order.Order) *fakeOrderRepo {
	m := make(map[int64]order.Order, len(orders))
	for _, o := range orders {
		m[o.ID] = o
	}
	return &fakeOrderRepo{orders: m}
}

func (f *fakeOrderRepo) List(ctx context.Context) ([]order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++

	out := make([]order.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (f *fakeOrderRepo) UpdateFields(ctx context.Context, id int64, fields order.UpdateFields) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateErr != nil {
		return f.updateErr
	}

	f.updates = append(f.updates, fields)
	o := f.orders[id]
	if fields.Status != nil {
		o.Status = *fields.Status
	}
	if fields.PaymentStatus != nil {
		o.PaymentStatus = *fields.PaymentStatus
	}
	f.orders[id] = o

	return nil
}

func (f *fakeOrderRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return f.deleteErr
	}

	f.deleted = append(f.deleted, id)
	delete(f.orders, id)

	return nil
}

type fakeItemRepo struct {
	mu            sync.Mutex
	items         []orderitem.OrderItem
	deletedOrders []int64
	deleteErr     error
}

func (f *fakeItemRepo) ListByOrders(ctx context.Context, orderIDs []int64) ([]orderitem.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []orderitem.OrderItem
	for _, item := range f.items {
		for _, id := range orderIDs {
			if item.OrderID == id {
				out = append(out, item)
			}
		}
	}

	return out, nil
}

func (f *fakeItemRepo) DeleteByOrder(ctx context.Context, orderID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedOrders = append(f.deletedOrders, orderID)

	return nil
}

type fakeUOW struct {
	orderRepo  *fakeOrderRepo
	itemRepo   *fakeItemRepo
	began      bool
	committed  bool
	rolledBack bool
}

func (u *fakeUOW) Begin(ctx context.Context) error    { u.began = true; return nil }
func (u *fakeUOW) Commit(ctx context.Context) error   { u.committed = true; return nil }
func (u *fakeUOW) Rollback(ctx context.Context) error { u.rolledBack = true; return nil }

func (u *fakeUOW) OrderRepository() iorderrepo.IOrderRepository {
	return u.orderRepo
}

func (u *fakeUOW) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return u.itemRepo
}

type confirmYes struct{}

func (confirmYes) Confirm(title, message string) bool { return true }

type confirmNo struct{}

func (confirmNo) Confirm(title, message string) bool { return false }

func newTestService(orderRepo *fakeOrderRepo, itemRepo *fakeItemRepo, work *fakeUOW) *OrderService {
	return MustNewOrderService(WithRepositories(orderRepo, itemRepo, func() unitOfWork {
		return work
	}))
}

func baseOrder() order.Order {
	return order.Order{
		ID:            1,
		DisplayID:     "A1",
		CustomerName:  "Ana",
		Phone:         "21999990000",
		TotalCents:    1550,
		Status:        order.StatusPending,
		PaymentStatus: order.PaymentPending,
		CreatedAt:     time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestUpdateStatusPersistsAndRefreshes(t *testing.T) {
	repo := newFakeOrderRepo(baseOrder())
	svc := newTestService(repo, &fakeItemRepo{}, &fakeUOW{orderRepo: repo})

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if err := svc.UpdateStatus(context.Background(), 1, order.StatusPreparing); err != nil {
		t.Fatalf("update status: %v", err)
	}

	got, ok := svc.Order(1)
	if !ok {
		t.Fatal("order missing from snapshot")
	}
	if got.Status != order.StatusPreparing {
		t.Errorf("snapshot status = %q, want preparing", got.Status)
	}
	if got.PaymentStatus != order.PaymentPending {
		t.Errorf("status change touched payment status: %q", got.PaymentStatus)
	}
	if got.CreatedAt != baseOrder().CreatedAt || got.TotalCents != baseOrder().TotalCents {
		t.Error("status change must not mutate created_at or financial fields")
	}
}

func TestUpdatePaymentDoesNotTouchStatus(t *testing.T) {
	repo := newFakeOrderRepo(baseOrder())
	svc := newTestService(repo, &fakeItemRepo{}, &fakeUOW{orderRepo: repo})
	_ = svc.Refresh(context.Background())

	if err := svc.UpdatePayment(context.Background(), 1, order.PaymentPaid); err != nil {
		t.Fatalf("update payment: %v", err)
	}

	got, _ := svc.Order(1)
	if got.PaymentStatus != order.PaymentPaid {
		t.Errorf("payment status = %q, want paid", got.PaymentStatus)
	}
	if got.Status != order.StatusPending {
		t.Errorf("payment change touched status: %q", got.Status)
	}

	if len(repo.updates) != 1 || repo.updates[0].Status != nil {
		t.Errorf("payment update must not carry a status field: %+v", repo.updates)
	}
}

func TestCombinedUpdateIsSingleWrite(t *testing.T) {
	repo := newFakeOrderRepo(baseOrder())
	svc := newTestService(repo, &fakeItemRepo{}, &fakeUOW{orderRepo: repo})
	_ = svc.Refresh(context.Background())

	status := order.StatusCompleted
	payment := order.PaymentPaid
	err := svc.Update(context.Background(), 1, order.UpdateFields{
		Status:        &status,
		PaymentStatus: &payment,
	})
	if err != nil {
		t.Fatalf("combined update: %v", err)
	}

	if len(repo.updates) != 1 {
		t.Fatalf("combined update produced %d writes, want 1 atomic write", len(repo.updates))
	}
	if repo.updates[0].Status == nil || repo.updates[0].PaymentStatus == nil {
		t.Errorf("atomic write is missing a field: %+v", repo.updates[0])
	}
}

func TestUpdateFailsClosed(t *testing.T) {
	repo := newFakeOrderRepo(baseOrder())
	svc := newTestService(repo, &fakeItemRepo{}, &fakeUOW{orderRepo: repo})
	_ = svc.Refresh(context.Background())

	repo.mu.Lock()
	repo.updateErr = errors.New("store unreachable")
	repo.mu.Unlock()

	err := svc.UpdateStatus(context.Background(), 1, order.StatusCompleted)
	if err == nil {
		t.Fatal("expected an error from the failed write")
	}

	got, _ := svc.Order(1)
	if got.Status != order.StatusPending {
		t.Errorf("in-memory state mutated despite failed write: %q", got.Status)
	}
}

func TestUpdateEmptyFields(t *testing.T) {
	repo := newFakeOrderRepo(baseOrder())
	svc := newTestService(repo, &fakeItemRepo{}, &fakeUOW{orderRepo: repo})

	if err := svc.Update(context.Background(), 1, order.UpdateFields{}); !errors.Is(err, ErrEmptyUpdate) {
		t.Errorf("error = %v, want ErrEmptyUpdate", err)
	}
}

func TestRestoreMovesToPending(t *testing.T) {
	o := baseOrder()
	o.Status = order.StatusCancelled
	repo := newFakeOrderRepo(o)
	svc := newTestService(repo, &fakeItemRepo{}, &fakeUOW{orderRepo: repo})
	_ = svc.Refresh(context.Background())

	if err := svc.Restore(context.Background(), 1); err != nil {
		t.Fatalf("restore: %v", err)
	}

	got, _ := svc.Order(1)
	if got.Status != order.StatusPending {
		t.Errorf("restored status = %q, want pending", got.Status)
	}
}

func TestPermissiveTransitions(t *testing.T) {
	// Any target status is accepted, including backward moves.
	repo := newFakeOrderRepo(baseOrder())
	svc := newTestService(repo, &fakeItemRepo{}, &fakeUOW{orderRepo: repo})
	_ = svc.Refresh(context.Background())

	sequence := []order.Status{
		order.StatusCompleted,
		order.StatusPending,
		order.StatusCancelled,
		order.StatusReady,
	}
	for _, target := range sequence {
		if err := svc.UpdateStatus(context.Background(), 1, target); err != nil {
			t.Fatalf("transition to %q rejected: %v", target, err)
		}
		got, _ := svc.Order(1)
		if got.Status != target {
			t.Errorf("status = %q, want %q", got.Status, target)
		}
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	repo := newFakeOrderRepo(baseOrder())
	itemRepo := &fakeItemRepo{}
	work := &fakeUOW{orderRepo: repo, itemRepo: itemRepo}
	svc := newTestService(repo, itemRepo, work)
	_ = svc.Refresh(context.Background())

	if err := svc.Delete(context.Background(), 1, confirmNo{}); err != nil {
		t.Fatalf("declined confirmation must not be an error: %v", err)
	}
	if work.began || len(repo.deleted) != 0 {
		t.Error("declined confirmation must abandon the delete")
	}

	if err := svc.Delete(context.Background(), 1, nil); err != nil {
		t.Fatalf("nil confirmer must abandon silently: %v", err)
	}
	if work.began {
		t.Error("nil confirmer must not reach the store")
	}
}

func TestDeleteConfirmedRemovesOrderAndItems(t *testing.T) {
	repo := newFakeOrderRepo(baseOrder())
	itemRepo := &fakeItemRepo{items: []orderitem.OrderItem{{ID: 10, OrderID: 1, ProductName: "Pizza", UnitPriceCents: 1550, Quantity: 1}}}
	work := &fakeUOW{orderRepo: repo, itemRepo: itemRepo}
	svc := newTestService(repo, itemRepo, work)
	_ = svc.Refresh(context.Background())

	if err := svc.Delete(context.Background(), 1, confirmYes{}); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if !work.began || !work.committed {
		t.Error("confirmed delete must run inside the unit of work")
	}
	if len(itemRepo.deletedOrders) != 1 || itemRepo.deletedOrders[0] != 1 {
		t.Errorf("items not deleted: %v", itemRepo.deletedOrders)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != 1 {
		t.Errorf("order not deleted: %v", repo.deleted)
	}
	if _, ok := svc.Order(1); ok {
		t.Error("snapshot still contains the deleted order")
	}
}

func TestDeleteRollsBackOnFailure(t *testing.T) {
	repo := newFakeOrderRepo(baseOrder())
	itemRepo := &fakeItemRepo{deleteErr: errors.New("write rejected")}
	work := &fakeUOW{orderRepo: repo, itemRepo: itemRepo}
	svc := newTestService(repo, itemRepo, work)
	_ = svc.Refresh(context.Background())

	err := svc.Delete(context.Background(), 1, confirmYes{})
	if err == nil {
		t.Fatal("expected an error from the failed delete")
	}
	if !work.rolledBack {
		t.Error("failed delete must roll back the unit of work")
	}
	if work.committed {
		t.Error("failed delete must not commit")
	}
	if _, ok := svc.Order(1); !ok {
		t.Error("failed delete must leave the snapshot untouched")
	}
}

func TestDeleteKeepsLockEntry(t *testing.T) {
	repo := newFakeOrderRepo(baseOrder())
	itemRepo := &fakeItemRepo{}
	work := &fakeUOW{orderRepo: repo, itemRepo: itemRepo}
	svc := newTestService(repo, itemRepo, work)
	_ = svc.Refresh(context.Background())

	before := svc.lockOrder(1)

	if err := svc.Delete(context.Background(), 1, confirmYes{}); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// A racing mutation on the same id must contend on the same mutex,
	// not on a freshly minted one.
	if after := svc.lockOrder(1); after != before {
		t.Error("delete replaced the per-order lock")
	}
}

func TestOrdersReturnsCopy(t *testing.T) {
	repo := newFakeOrderRepo(baseOrder())
	svc := newTestService(repo, &fakeItemRepo{}, &fakeUOW{orderRepo: repo})
	_ = svc.Refresh(context.Background())

	orders := svc.Orders()
	orders[0].Status = order.StatusCancelled

	got, _ := svc.Order(1)
	if got.Status != order.StatusPending {
		t.Error("mutating the returned slice must not affect the snapshot")
	}
}
