package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"photobook/internal/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	QueueKey       = "notifications"
	FailedQueueKey = "notifications:failed"

	pushTimeout = 2 * time.Second
)

// Queue is a Sink backed by a Redis list.
type Queue struct {
	redis *redis.Client
	now   func() time.Time
}

func NewQueue(rdb *redis.Client) *Queue {
	return &Queue{redis: rdb, now: time.Now}
}

func (q *Queue) Notify(ctx context.Context, recipientUserID, eventType string, payload Payload) error {
	job := Job{
		ID:              uuid.NewString(),
		RecipientUserID: recipientUserID,
		EventType:       eventType,
		Payload:         payload,
		Created:         q.now().UTC(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	// The request context may already be finishing; the push gets its own deadline.
	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pushTimeout)
	defer cancel()

	if err := q.redis.LPush(pushCtx, QueueKey, data).Err(); err != nil {
		return fmt.Errorf("queue notification: %w", err)
	}

	logger.Debug("notification queued", "event_type", eventType, "recipient", recipientUserID)
	return nil
}

// Length reports how many jobs wait to be delivered.
func (q *Queue) Length(ctx context.Context) (int64, error) {
	length, err := q.redis.LLen(ctx, QueueKey).Result()
	if err != nil {
		return 0, fmt.Errorf("notification queue length: %w", err)
	}
	return length, nil
}
