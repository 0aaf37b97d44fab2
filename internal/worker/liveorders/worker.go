package liveorders

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/comandalivre/opsdesk/internal/alert"
	"github.com/comandalivre/opsdesk/internal/service/models/currency"
	"github.com/comandalivre/opsdesk/internal/service/models/order"
	"github.com/comandalivre/opsdesk/internal/transport/stream"
	"golang.org/x/sync/errgroup"
)

// orderService represents the order snapshot refresh surface.
type orderService interface {
	Refresh(ctx context.Context) error
	Orders() []order.Order
}

// notifier represents the push notification capability.
type notifier interface {
	Granted() bool
	Notify(title, body, dedupeKey string) error
}

// orderStream yields insert events for new order rows.
type orderStream interface {
	Subscribe(ctx context.Context) (<-chan stream.InsertEvent, <-chan error, error)
}

// Worker keeps the in-memory order collection fresh and guarantees staff
// cannot miss a new order. Three refresh layers run: stream-triggered
// refetch, a fallback poll that takes over when the stream reports a
// channel error, and an unconditional backstop poll. The double coverage
// of stream plus backstop is deliberate.
type Worker struct {
	svc       orderService
	stream    orderStream
	escalator *alert.Escalator
	notifier  notifier

	fallbackInterval time.Duration
	backstopInterval time.Duration

	mu       sync.Mutex
	notified map[int64]struct{}

	stopCh chan struct{}
}

// NewWorker creates a new live orders worker. Zero intervals select the
// 30s fallback and 60s backstop defaults.
func NewWorker(
	svc orderService,
	orderStream orderStream,
	escalator *alert.Escalator,
	notifier notifier,
	fallbackInterval time.Duration,
	backstopInterval time.Duration,
) *Worker {
	if fallbackInterval == 0 {
		fallbackInterval = 30 * time.Second
	}
	if backstopInterval == 0 {
		backstopInterval = 60 * time.Second
	}

	return &Worker{
		svc:              svc,
		stream:           orderStream,
		escalator:        escalator,
		notifier:         notifier,
		fallbackInterval: fallbackInterval,
		backstopInterval: backstopInterval,
		notified:         make(map[int64]struct{}),
		stopCh:           make(chan struct{}),
	}
}

// Start runs the stream consumer and the backstop poll until the context
// is cancelled or Stop is called.
func (w *Worker) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-w.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	slog.Info("Live orders worker started",
		"fallback_interval", w.fallbackInterval,
		"backstop_interval", w.backstopInterval,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		w.consumeStream(gctx)
		return nil
	})
	g.Go(func() error {
		w.poll(gctx, w.backstopInterval, "backstop")
		return nil
	})

	_ = g.Wait()
	slog.Info("Live orders worker stopped")
}

// Stop stops the worker.
func (w *Worker) Stop() {
	close(w.stopCh)
}

// consumeStream drives the primary path. A channel-level stream error is
// not fatal: the worker degrades to polling for the rest of the session.
func (w *Worker) consumeStream(ctx context.Context) {
	events, errs, err := w.stream.Subscribe(ctx)
	if err != nil {
		slog.Error("Order stream subscription failed, polling instead", "error", err)
		w.poll(ctx, w.fallbackInterval, "fallback")

		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case streamErr := <-errs:
			slog.Warn("Order stream reported channel error, polling instead", "error", streamErr)
			w.poll(ctx, w.fallbackInterval, "fallback")

			return
		case ev, ok := <-events:
			if !ok {
				// A closed event channel means the stream is gone even if
				// no error was read first; losing it without starting the
				// fallback poll would leave staff blind to new orders.
				var streamErr error
				select {
				case streamErr = <-errs:
				default:
				}
				slog.Warn("Order stream closed, polling instead", "error", streamErr)
				w.poll(ctx, w.fallbackInterval, "fallback")

				return
			}
			w.handleInsert(ctx, ev)
		}
	}
}

// handleInsert reacts to one new-order event: full refetch, alert, push.
func (w *Worker) handleInsert(ctx context.Context, ev stream.InsertEvent) {
	slog.Info("New order event received", "order_id", ev.OrderID, "display_id", ev.DisplayID)

	if err := w.svc.Refresh(ctx); err != nil {
		slog.Error("Refresh after insert event failed", "error", err)
	}

	w.escalator.Trigger(alert.Alert{
		OrderID:      ev.OrderID,
		DisplayID:    ev.DisplayID,
		CustomerName: ev.CustomerName,
		TotalCents:   ev.TotalCents,
		ReceivedAt:   time.Now(),
	})

	w.pushOnce(ev)
}

// pruneNotified drops dedupe entries for orders no longer in the
// snapshot so the map stays bounded by the live order count.
func (w *Worker) pruneNotified() {
	current := make(map[int64]struct{})
	for _, o := range w.svc.Orders() {
		current[o.ID] = struct{}{}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for id := range w.notified {
		if _, live := current[id]; !live {
			delete(w.notified, id)
		}
	}
}

// pushOnce emits at most one push notification per order id, so a
// re-subscription cannot duplicate a push for the same order.
func (w *Worker) pushOnce(ev stream.InsertEvent) {
	if w.notifier == nil || !w.notifier.Granted() {
		return
	}

	w.mu.Lock()
	if _, seen := w.notified[ev.OrderID]; seen {
		w.mu.Unlock()

		return
	}
	w.notified[ev.OrderID] = struct{}{}
	w.mu.Unlock()

	body := fmt.Sprintf("%s (%s)", ev.CustomerName, currency.FormatBRL(ev.TotalCents))
	if err := w.notifier.Notify("New order", body, fmt.Sprintf("order-%d", ev.OrderID)); err != nil {
		slog.Error("Failed to push notification", "order_id", ev.OrderID, "error", err)
	}
}

// poll refetches the full order collection on a fixed interval.
func (w *Worker) poll(ctx context.Context, interval time.Duration, label string) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.svc.Refresh(ctx); err != nil {
				slog.Error("Periodic refresh failed", "poll", label, "error", err)

				continue
			}
			w.pruneNotified()
		}
	}
}
