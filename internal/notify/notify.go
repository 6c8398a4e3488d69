// Package notify delivers booking events to users. Producers push jobs onto
// a Redis list through Queue; Worker drains it into the per-user inbox and
// the RabbitMQ event exchange.
package notify

import (
	"context"
	"time"
)

const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventBookingStarted   = "booking.started"
	EventBookingCompleted = "booking.completed"
	EventBookingReminder  = "booking.reminder"
)

type Payload map[string]interface{}

// Sink accepts notifications. Implementations must not block on delivery.
type Sink interface {
	Notify(ctx context.Context, recipientUserID, eventType string, payload Payload) error
}

// Job is one queued notification.
type Job struct {
	ID              string    `json:"id"`
	RecipientUserID string    `json:"recipient_user_id"`
	EventType       string    `json:"event_type"`
	Payload         Payload   `json:"payload"`
	Tries           int       `json:"tries"`
	Created         time.Time `json:"created"`
}

// Deliverer hands a job to one destination.
type Deliverer interface {
	Deliver(ctx context.Context, job Job) error
}

// Nop discards notifications.
type Nop struct{}

func (Nop) Notify(context.Context, string, string, Payload) error { return nil }
