package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"smartwiz/models"
)

const (
	EventsExchange        = "smartwiz.events"
	CartUpdatedRoutingKey = "cart.updated.v1"
	EventTypeCartUpdated  = "CartUpdated"
)

// CartUpdated is the message published for every cart snapshot
type CartUpdated struct {
	EventType  string            `json:"eventType"`
	EventID    string            `json:"eventId"`
	OccurredAt time.Time         `json:"occurredAt"`
	Products   []models.LineItem `json:"products"`
}

// amqpChannel is the part of *amqp.Channel the publisher uses
type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// CartUpdatedPublisher sends cart snapshots to an external system
type CartUpdatedPublisher interface {
	PublishCartUpdated(ctx context.Context, products []models.LineItem) error
}

// RabbitCartPublisher publishes CartUpdated events to a topic exchange
type RabbitCartPublisher struct {
	ch  amqpChannel
	now func() time.Time
}

// Dial connects to RabbitMQ
func Dial(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	return conn, nil
}

// NewRabbitCartPublisher opens a channel on conn and declares the events exchange
func NewRabbitCartPublisher(conn *amqp.Connection) (*RabbitCartPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	return newRabbitCartPublisher(ch)
}

func newRabbitCartPublisher(ch amqpChannel) (*RabbitCartPublisher, error) {
	if err := ch.ExchangeDeclare(EventsExchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}
	return &RabbitCartPublisher{ch: ch, now: time.Now}, nil
}

// PublishCartUpdated publishes one snapshot as a persistent JSON message
func (p *RabbitCartPublisher) PublishCartUpdated(ctx context.Context, products []models.LineItem) error {
	if products == nil {
		products = []models.LineItem{}
	}
	ev := CartUpdated{
		EventType:  EventTypeCartUpdated,
		EventID:    uuid.NewString(),
		OccurredAt: p.now().UTC(),
		Products:   products,
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal CartUpdated: %w", err)
	}

	return p.ch.PublishWithContext(
		ctx,
		EventsExchange,
		CartUpdatedRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    ev.EventID,
			Timestamp:    ev.OccurredAt,
			Body:         body,
		},
	)
}

func (p *RabbitCartPublisher) Close() error {
	return p.ch.Close()
}

// Forward relays snapshots from sub to pub until the subscription is closed
// or ctx is done. Publish failures are logged and the next snapshot is tried.
func Forward(ctx context.Context, sub *Subscription, pub CartUpdatedPublisher, logger *log.Logger) {
	defer sub.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case products, ok := <-sub.C:
			if !ok {
				return
			}
			pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			if err := pub.PublishCartUpdated(pubCtx, products); err != nil {
				logger.Printf("publish cart update: %v", err)
			}
			cancel()
		}
	}
}
