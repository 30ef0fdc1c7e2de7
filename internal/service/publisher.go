// Package service provides the event publisher used by handlers to
// announce directory changes on RabbitMQ.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/booking-directory/internal/queue"
)

// dialTimeout bounds how long a request waits for an unreachable broker.
const dialTimeout = 2 * time.Second

// Publisher announces activity events.  Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, ev queue.ActivityEvent) error
}

// AMQPPublisher publishes events to a durable RabbitMQ queue through the
// default exchange.  A connection is dialed per publish; writes are rare.
type AMQPPublisher struct {
	URL   string
	Queue string
}

// NewAMQPPublisher returns a publisher for the given broker URL and queue.
func NewAMQPPublisher(url, queueName string) *AMQPPublisher {
	return &AMQPPublisher{URL: url, Queue: queueName}
}

// Publish sends ev as a persistent JSON message.
func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.ActivityEvent) error {
	conn, err := amqp.DialConfig(p.URL, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// idempotent; durable so messages survive broker restarts
	if _, err := ch.QueueDeclare(
		p.Queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         ev.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.Queue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}

// Noop discards every event.  It is used when messaging is disabled.
type Noop struct{}

func (Noop) Publish(context.Context, queue.ActivityEvent) error { return nil }
