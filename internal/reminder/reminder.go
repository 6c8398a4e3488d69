// Package reminder schedules and delivers pre-session reminders for
// confirmed bookings through asynq.
package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"photobook/internal/clock"
	"photobook/internal/logger"
	"photobook/internal/metrics"

	"github.com/hibiken/asynq"
)

const (
	TypeBookingReminder = "booking:reminder"
	Queue               = "default"
	maxRetry            = 3
)

type Payload struct {
	BookingID string `json:"booking_id"`
}

func taskID(bookingID string) string {
	return "reminder:" + bookingID
}

// NewReminderTask builds the task that fires at fireAt. The task id is
// derived from the booking so it can be found again on cancellation.
func NewReminderTask(bookingID string, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(Payload{BookingID: bookingID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingReminder, b)
	opts := []asynq.Option{
		asynq.TaskID(taskID(bookingID)),
		asynq.ProcessAt(fireAt),
		asynq.Queue(Queue),
		asynq.MaxRetry(maxRetry),
	}
	return task, opts, nil
}

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type deleter interface {
	DeleteTask(queue, id string) error
}

// Scheduler satisfies booking.Reminders.
type Scheduler struct {
	client    enqueuer
	inspector deleter
	lead      time.Duration
	clock     clock.Clock
}

func NewScheduler(client *asynq.Client, inspector *asynq.Inspector, lead time.Duration, clk clock.Clock) *Scheduler {
	return &Scheduler{
		client:    client,
		inspector: inspector,
		lead:      lead,
		clock:     clk,
	}
}

// Schedule enqueues a reminder lead before startAt, or right away when
// that moment has already passed.
func (s *Scheduler) Schedule(ctx context.Context, bookingID string, startAt time.Time) error {
	fireAt := startAt.Add(-s.lead)
	if now := s.clock.Now(); fireAt.Before(now) {
		fireAt = now
	}

	task, opts, err := NewReminderTask(bookingID, fireAt)
	if err != nil {
		return fmt.Errorf("build reminder task: %w", err)
	}

	if _, err := s.client.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("enqueue reminder: %w", err)
	}

	metrics.RecordReminder("scheduled")
	logger.Debug("reminder scheduled", "booking_id", bookingID, "fire_at", fireAt)
	return nil
}

// Cancel removes a pending reminder. A reminder that already ran or was
// never scheduled is not an error.
func (s *Scheduler) Cancel(_ context.Context, bookingID string) error {
	err := s.inspector.DeleteTask(Queue, taskID(bookingID))
	switch {
	case err == nil:
		metrics.RecordReminder("cancelled")
		return nil
	case errors.Is(err, asynq.ErrTaskNotFound), errors.Is(err, asynq.ErrQueueNotFound):
		return nil
	default:
		return fmt.Errorf("delete reminder: %w", err)
	}
}
