// Package events feeds external and scheduled events to the price dispatcher.
package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/go-faster/errors"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/smartinventory/inventory-tracker/app/pricing"
)

type Handler interface {
	HandleEvent(ctx context.Context, ev pricing.Event) bool
}

// Consumer reads {"action": ...} messages from a durable AMQP queue.
type Consumer struct {
	url     string
	queue   string
	handler Handler
	log     *slog.Logger
}

func NewConsumer(url, queue string, handler Handler, log *slog.Logger) *Consumer {
	return &Consumer{
		url:     url,
		queue:   queue,
		handler: handler,
		log:     log,
	}
}

// Run consumes until ctx is done or the broker closes the delivery channel.
// Each message is acknowledged after it has been handled.
func (c *Consumer) Run(ctx context.Context) error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return errors.Wrap(err, "dial amqp")
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return errors.Wrap(err, "open channel")
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return errors.Wrapf(err, "declare queue %q", c.queue)
	}
	// one pass at a time per consumer
	if err := ch.Qos(1, 0, false); err != nil {
		return errors.Wrap(err, "set qos")
	}

	msgs, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return errors.Wrapf(err, "consume %q", c.queue)
	}

	c.log.Info("event_consumer_started", "queue", c.queue)
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			c.handleDelivery(ctx, d.Body)
			if err := d.Ack(false); err != nil {
				c.log.Warn("event_ack_failed", "error", err)
			}
		}
	}
}

func (c *Consumer) handleDelivery(ctx context.Context, body []byte) {
	var ev pricing.Event
	if err := json.Unmarshal(body, &ev); err != nil {
		c.log.Warn("event_malformed", "body", string(body), "error", err)
		return
	}
	c.handler.HandleEvent(context.WithoutCancel(ctx), ev)
}
