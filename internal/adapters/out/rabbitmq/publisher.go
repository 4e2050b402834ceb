// Package rabbitmq mirrors live events to a topic exchange so services
// outside this process can follow job and contractor activity.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"junkos/internal/core/ports"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const DefaultExchange = "junkos.live"

var _ ports.LiveChannel = (*Publisher)(nil)

type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Event is the message body.
type Event struct {
	Room       string    `json:"room"`
	Event      string    `json:"event"`
	Payload    any       `json:"payload"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher struct {
	conn     *amqp091.Connection
	ch       channel
	exchange string
	logger   *zap.Logger
}

// Dial connects, retrying while the broker starts up, and declares the
// exchange.
func Dial(url, exchange string, logger *zap.Logger) (*Publisher, error) {
	var (
		conn *amqp091.Connection
		err  error
	)
	for attempt := 1; attempt <= 5; attempt++ {
		conn, err = amqp091.Dial(url)
		if err == nil {
			break
		}
		if logger != nil {
			logger.Warn("rabbitmq not ready, retrying", zap.Int("attempt", attempt), zap.Error(err))
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	p, err := NewPublisher(ch, exchange, logger)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func NewPublisher(ch channel, exchange string, logger *zap.Logger) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := ch.ExchangeDeclare(exchange, amqp091.ExchangeTopic, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return &Publisher{
		ch:       ch,
		exchange: exchange,
		logger:   logger.With(zap.String("component", "rabbitmq")),
	}, nil
}

// RoutingKey maps an event name to a topic key: "job:status" becomes
// "live.job.status".
func RoutingKey(event string) string {
	return "live." + strings.NewReplacer(":", ".", "-", "_").Replace(event)
}

func (p *Publisher) Emit(ctx context.Context, room, event string, payload any) error {
	now := time.Now().UTC()
	body, err := json.Marshal(Event{Room: room, Event: event, Payload: payload, OccurredAt: now})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = p.ch.PublishWithContext(ctx,
		p.exchange,
		RoutingKey(event),
		false,
		false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    now,
			Headers:      amqp091.Table{"room": room},
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	err := p.ch.Close()
	if p.conn != nil {
		if cErr := p.conn.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}
	return err
}
