package events

import (
	"context"
	"encoding/json"
	"time"

	"bus-ticketing/pkg/utils"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher emits booking lifecycle events. Publishing is best-effort:
// callers log and ignore failures, the booking itself is already
// durable in Postgres.
type Publisher interface {
	PublishBookingEvent(ctx context.Context, event BookingEvent) error
}

// NewPublisher returns an AMQP-backed publisher, or a no-op one when
// the broker is disabled in config.
func NewPublisher(config utils.BrokerConfig, log *zap.Logger) Publisher {
	if !config.Enabled || config.URL == "" {
		return &nopPublisher{}
	}
	return &amqpPublisher{
		url:   config.URL,
		queue: config.Queue,
		log:   log.With(zap.String("component", "event_publisher")),
	}
}

type nopPublisher struct{}

func (p *nopPublisher) PublishBookingEvent(ctx context.Context, event BookingEvent) error {
	return nil
}

type amqpPublisher struct {
	url   string
	queue string
	log   *zap.Logger
}

func (p *amqpPublisher) PublishBookingEvent(ctx context.Context, event BookingEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Error("Failed to dial broker", zap.Error(err))
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Error("Failed to open channel", zap.Error(err))
		return err
	}
	defer ch.Close()

	// Idempotent declare; durable so messages survive broker restarts
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		p.log.Error("Failed to declare queue", zap.Error(err))
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.log.Error("Failed to marshal event", zap.Error(err))
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		p.log.Error("Failed to publish event",
			zap.Error(err),
			zap.String("event", event.Event),
			zap.String("booking_code", event.BookingCode),
		)
		return err
	}

	return nil
}
