// Package messaging provides event publishing over AMQP.
// Events are emitted on a topic exchange so downstream consumers
// (notifications, reporting) can subscribe without coupling to the API.
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/gaborage/libris/config"
	"github.com/gaborage/libris/logger"
)

const publishTimeout = 5 * time.Second

var errNotConnected = errors.New("not connected to AMQP broker")

// Publisher emits domain events keyed by routing key.
type Publisher interface {
	// Publish serializes the event as JSON and sends it with the given routing key.
	Publish(ctx context.Context, routingKey string, event any) error
	// Close releases the broker connection.
	Close() error
}

// amqpChannel is the subset of amqp.Channel the publisher uses.
// It exists so tests can substitute a fake channel.
type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// dialAMQP is a seam for tests.
var dialAMQP = func(url string) (*amqp.Connection, error) {
	return amqp.Dial(url)
}

// AMQPPublisher publishes events to a durable topic exchange.
type AMQPPublisher struct {
	mu       sync.Mutex
	exchange string
	log      logger.Logger
	conn     *amqp.Connection
	channel  amqpChannel
}

// NewPublisher connects to the broker and declares the exchange.
// When no broker URL is configured it returns a no-op publisher so the
// application runs without messaging infrastructure.
func NewPublisher(cfg *config.Config, log logger.Logger) (Publisher, error) {
	if cfg.Messaging.Broker.URL == "" {
		log.Info().Msg("No broker URL configured, events disabled")
		return NoopPublisher{}, nil
	}

	conn, err := dialAMQP(cfg.Messaging.Broker.URL)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	exchange := cfg.Messaging.Exchange
	if err := channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, err
	}

	log.Info().
		Str("exchange", exchange).
		Msg("Connected to AMQP broker")

	return &AMQPPublisher{
		exchange: exchange,
		log:      log,
		conn:     conn,
		channel:  channel,
	}, nil
}

// Publish sends the event as a persistent JSON message.
func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	channel := p.channel
	p.mu.Unlock()
	if channel == nil {
		return errNotConnected
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.New().String(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		p.log.Error().
			Err(err).
			Str("routing_key", routingKey).
			Msg("Failed to publish event")
		return err
	}

	p.log.Debug().
		Str("routing_key", routingKey).
		Int("bytes", len(body)).
		Msg("Event published")

	return nil
}

// Close closes the channel and connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		_ = p.channel.Close()
		p.channel = nil
	}
	if p.conn != nil {
		err := p.conn.Close()
		p.conn = nil
		return err
	}
	return nil
}

// NoopPublisher discards all events. Used when messaging is not configured.
type NoopPublisher struct{}

// Publish discards the event.
func (NoopPublisher) Publish(context.Context, string, any) error { return nil }

// Close is a no-op.
func (NoopPublisher) Close() error { return nil }
