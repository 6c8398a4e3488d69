package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"photobook/internal/apperr"
	"photobook/internal/booking"
	"photobook/internal/logger"
	"photobook/internal/metrics"
	"photobook/internal/notify"

	"github.com/hibiken/asynq"
)

type BookingSource interface {
	GetByID(ctx context.Context, id string) (*booking.Booking, error)
}

// Handler processes reminder tasks.
type Handler struct {
	bookings BookingSource
	sink     notify.Sink
}

func NewHandler(bookings BookingSource, sink notify.Sink) *Handler {
	return &Handler{bookings: bookings, sink: sink}
}

func (h *Handler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var p Payload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		logger.Error("invalid reminder payload", "error", err)
		return fmt.Errorf("decode reminder payload: %v: %w", err, asynq.SkipRetry)
	}

	b, err := h.bookings.GetByID(ctx, p.BookingID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			logger.Warn("reminder for unknown booking", "booking_id", p.BookingID)
			metrics.RecordReminder("skipped")
			return nil
		}
		return err
	}

	// The booking may have moved on since the task was scheduled.
	if b.State != booking.StateConfirmed {
		metrics.RecordReminder("skipped")
		return nil
	}

	payload := notify.Payload{
		"booking_id":      b.ID,
		"photographer_id": b.PhotographerID,
		"client_id":       b.ClientID,
		"state":           string(b.State),
		"start_at":        b.StartAt.Format(time.RFC3339),
		"end_at":          b.EndAt.Format(time.RFC3339),
	}
	// A retry replays every recipient, so it is only worth it when nobody got
	// the reminder.
	recipients := []string{b.ClientID, b.PhotographerUserID}
	var errs []error
	for _, userID := range recipients {
		if err := h.sink.Notify(ctx, userID, notify.EventBookingReminder, payload); err != nil {
			logger.Error("failed to queue reminder", "booking_id", b.ID, "recipient", userID, "error", err)
			errs = append(errs, fmt.Errorf("queue reminder for %s: %w", userID, err))
		}
	}
	if len(errs) == len(recipients) {
		return errors.Join(errs...)
	}

	metrics.RecordReminder("sent")
	logger.Info("reminder sent", "booking_id", b.ID)
	return nil
}
