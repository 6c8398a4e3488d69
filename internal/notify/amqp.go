package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"photobook/internal/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const EventsExchange = "photobook.events"

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPPublisher publishes delivered notifications to a durable topic exchange,
// routed by event type, for the socket gateway to fan out.
type AMQPPublisher struct {
	mu   sync.Mutex
	conn *amqp.Connection
	ch   publisher
}

func DialAMQP(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		EventsExchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq exchange declare: %w", err)
	}

	logger.Info("RabbitMQ publisher ready", "exchange", EventsExchange)
	return &AMQPPublisher{conn: conn, ch: ch}, nil
}

type eventMessage struct {
	ID              string    `json:"id"`
	RecipientUserID string    `json:"recipient_user_id"`
	EventType       string    `json:"event_type"`
	Payload         Payload   `json:"payload"`
	Created         time.Time `json:"created"`
}

func (p *AMQPPublisher) Deliver(ctx context.Context, job Job) error {
	body, err := json.Marshal(eventMessage{
		ID:              job.ID,
		RecipientUserID: job.RecipientUserID,
		EventType:       job.EventType,
		Payload:         job.Payload,
		Created:         job.Created,
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, EventsExchange, job.EventType, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    job.ID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}
