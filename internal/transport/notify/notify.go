package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/comandalivre/opsdesk/internal/rabbitmq"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
)

// message is the payload the operations dashboard consumes. Kind is
// either "push" or "alert_tone".
type message struct {
	Kind      string    `json:"kind"`
	Title     string    `json:"title,omitempty"`
	Body      string    `json:"body,omitempty"`
	DedupeKey string    `json:"dedupeKey,omitempty"`
	SentAt    time.Time `json:"sentAt"`
}

// Notifier publishes push notifications and alert tones to the staff
// notification queue. Pushes are gated behind an explicit permission
// grant from the user.
type Notifier struct {
	client *rabbitmq.Client
	queue  amqp.Queue

	mu      sync.Mutex
	granted bool
}

// NewNotifier declares the staff notification queue.
func NewNotifier(client *rabbitmq.Client) (*Notifier, error) {
	queueName := viper.GetString("rabbitmq.notifications_queue")
	if queueName == "" {
		queueName = "staff.notifications"
	}

	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:       queueName,
		Durable:    false,
		AutoDelete: false,
		Exclusive:  false,
		NoWait:     false,
	})
	if err != nil {
		return nil, err
	}

	return &Notifier{
		client: client,
		queue:  queue,
	}, nil
}

// Grant records the user's push-notification permission.
func (n *Notifier) Grant() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.granted = true
}

// Granted reports whether push notifications are permitted.
func (n *Notifier) Granted() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.granted
}

// Notify publishes one push notification.
func (n *Notifier) Notify(title, body, dedupeKey string) error {
	return n.publish(message{
		Kind:      "push",
		Title:     title,
		Body:      body,
		DedupeKey: dedupeKey,
		SentAt:    time.Now(),
	})
}

// Beep publishes one alert tone event.
func (n *Notifier) Beep() {
	if err := n.publish(message{Kind: "alert_tone", SentAt: time.Now()}); err != nil {
		slog.Error("Failed to publish alert tone", "error", err)
	}
}

func (n *Notifier) publish(msg message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	err = n.client.Channel().Publish(
		"",
		n.queue.Name,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        payload,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	return nil
}
