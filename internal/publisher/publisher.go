// Package publisher sends ledger events to RabbitMQ.  Publishing is best
// effort: errors are returned so callers can log them, but a broker outage
// never blocks or fails a booking.
package publisher

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/cinema-ticket-ledger/internal/queue"
)

// Publisher is what the HTTP handlers depend on.
type Publisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
	PublishShowtimeRegistered(ctx context.Context, ev queue.ShowtimeRegisteredEvent) error
}

// New returns an AMQP publisher for url, or a Noop when url is empty.
func New(url string) Publisher {
	if url == "" {
		return Noop{}
	}
	return &AMQP{URL: url}
}

// Noop drops every event.
type Noop struct{}

func (Noop) PublishBookingConfirmed(context.Context, queue.BookingConfirmedEvent) error     { return nil }
func (Noop) PublishShowtimeRegistered(context.Context, queue.ShowtimeRegisteredEvent) error { return nil }

// AMQP dials the broker for every message.  Traffic is one message per
// booking, so connection reuse is not worth the reconnect bookkeeping.
type AMQP struct {
	URL string
}

func (p *AMQP) PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error {
	return p.publish(ctx, queue.BookingConfirmedQueue, ev)
}

func (p *AMQP) PublishShowtimeRegistered(ctx context.Context, ev queue.ShowtimeRegisteredEvent) error {
	return p.publish(ctx, queue.ShowtimeRegisteredQueue, ev)
}

func (p *AMQP) publish(ctx context.Context, queueName string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	conn, err := amqp.Dial(p.URL)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	// idempotent; durable so messages survive broker restarts
	if _, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		return err
	}

	return ch.PublishWithContext(ctx,
		"",        // default exchange
		queueName, // routing key = queue name
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}
