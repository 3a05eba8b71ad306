// Package service holds side effects that sit next to the request flow.
package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/postboard/internal/logger"
	"github.com/iliyamo/postboard/internal/queue"
)

// EventPublisher sends activity events to a durable RabbitMQ queue.  A nil
// *EventPublisher is valid and drops every event.
type EventPublisher struct {
	URL   string
	Queue string
	// DialTimeout bounds the broker connection; zero means 3s.
	DialTimeout time.Duration
}

// Publish is best effort: failures are logged and never reach the caller,
// so a broker outage cannot change the outcome of a request.
func (p *EventPublisher) Publish(ctx context.Context, ev queue.ActivityEvent) {
	if p == nil {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	if err := p.publish(ctx, ev); err != nil {
		logger.Warn.Printf("rabbitmq: publish %s: %v", ev.Type, err)
	}
}

func (p *EventPublisher) publish(ctx context.Context, ev queue.ActivityEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	timeout := p.DialTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	conn, err := amqp.DialConfig(p.URL, amqp.Config{Dial: amqp.DefaultDial(timeout)})
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.Queue, true, false, false, false, nil); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	return ch.PublishWithContext(ctx, "", p.Queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    ev.OccurredAt,
		Type:         ev.Type,
		Body:         body,
	})
}
