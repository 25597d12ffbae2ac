package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"kalshi-hedge-fund/internal/interfaces"
	"kalshi-hedge-fund/internal/types"
)

// Exchange carrying all fund events.
const Exchange = "fund.events"

// Routing keys per event type.
const (
	RoutingKeySignal = "signal.generated"
	RoutingKeyTrade  = "trade.executed"
	RoutingKeyAlert  = "risk.alert"
)

// Message is the envelope published for every fund event.
type Message struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// Compile-time interface check
var _ interfaces.EventPublisher = (*Publisher)(nil)

// Publisher publishes fund events to RabbitMQ.
type Publisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewPublisher connects to RabbitMQ and declares the events exchange.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", Exchange, err)
	}

	return &Publisher{conn: conn, channel: ch}, nil
}

func (p *Publisher) publish(ctx context.Context, routingKey string, payload any) error {
	msg := Message{
		ID:        uuid.New().String(),
		Type:      routingKey,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.channel.PublishWithContext(
		ctx,
		Exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    msg.ID,
			Timestamp:    msg.Timestamp,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish to %s/%s: %w", Exchange, routingKey, err)
	}
	return nil
}

// PublishSignal publishes a signal.generated event.
func (p *Publisher) PublishSignal(ctx context.Context, signal types.Signal) error {
	return p.publish(ctx, RoutingKeySignal, signal)
}

// PublishTrade publishes a trade.executed event.
func (p *Publisher) PublishTrade(ctx context.Context, execution types.Execution) error {
	return p.publish(ctx, RoutingKeyTrade, execution)
}

// PublishAlert publishes a risk.alert event.
func (p *Publisher) PublishAlert(ctx context.Context, alert types.Alert) error {
	return p.publish(ctx, RoutingKeyAlert, alert)
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
