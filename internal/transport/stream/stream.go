package stream

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/comandalivre/opsdesk/internal/rabbitmq"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
)

// InsertEvent is one new-order row published by the store.
type InsertEvent struct {
	OrderID      int64  `json:"orderId"`
	DisplayID    string `json:"displayId"`
	CustomerName string `json:"customerName"`
	TotalCents   int64  `json:"totalCents"`
}

// OrderStream subscribes to the live insert-event stream for the order
// table. Channel-level errors are reported on a separate channel so the
// caller can fall back to polling.
type OrderStream struct {
	client *rabbitmq.Client
	queue  amqp.Queue
}

// NewOrderStream declares the insert-event queue and returns the stream.
func NewOrderStream(client *rabbitmq.Client) (*OrderStream, error) {
	queueName := viper.GetString("rabbitmq.orders_queue")
	if queueName == "" {
		queueName = "orders.inserted"
	}

	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:       queueName,
		Durable:    true,
		AutoDelete: false,
		Exclusive:  false,
		NoWait:     false,
	})
	if err != nil {
		return nil, err
	}

	return &OrderStream{
		client: client,
		queue:  queue,
	}, nil
}

// Subscribe starts delivering insert events. The error channel carries
// the channel-level failure that ends the subscription; malformed
// payloads are logged and skipped, they do not end the stream.
func (s *OrderStream) Subscribe(ctx context.Context) (<-chan InsertEvent, <-chan error, error) {
	consumerTag := viper.GetString("rabbitmq.consumer_tag")
	if consumerTag == "" {
		consumerTag = "opsdesk"
	}

	msgs, err := s.client.Consume(rabbitmq.ConsumeConfig{
		Queue:    s.queue.Name,
		Consumer: consumerTag,
		AutoAck:  true,
	})
	if err != nil {
		return nil, nil, err
	}

	closed := s.client.NotifyClose()

	events := make(chan InsertEvent)
	errs := make(chan error, 1)

	go func() {
		defer close(events)

		for {
			select {
			case <-ctx.Done():
				return
			case amqpErr := <-closed:
				if amqpErr != nil {
					errs <- amqpErr
				}

				return
			case msg, ok := <-msgs:
				if !ok {
					// The delivery channel and NotifyClose fire together
					// when the AMQP channel dies; forward the error if it
					// is already there so the caller sees the failure.
					select {
					case amqpErr := <-closed:
						if amqpErr != nil {
							errs <- amqpErr
						}
					default:
					}

					slog.Info("Order stream delivery channel closed")

					return
				}

				var ev InsertEvent
				if err := json.Unmarshal(msg.Body, &ev); err != nil {
					slog.Error("Failed to unmarshal insert event", "error", err)

					continue
				}

				select {
				case events <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	slog.Info("Subscribed to order insert stream", "queue", s.queue.Name)

	return events, errs, nil
}
