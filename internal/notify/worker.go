package notify

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"photobook/internal/logger"
	"photobook/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	popTimeout          = 2 * time.Second
	queueReportInterval = 15 * time.Second
)

type Worker struct {
	redis      *redis.Client
	queue      *Queue
	deliverers []Deliverer
	maxTries   int
	retryDelay time.Duration
}

func NewWorker(rdb *redis.Client, maxTries int, deliverers ...Deliverer) *Worker {
	if maxTries < 1 {
		maxTries = 1
	}
	return &Worker{
		redis:      rdb,
		queue:      NewQueue(rdb),
		deliverers: deliverers,
		maxTries:   maxTries,
		retryDelay: 5 * time.Second,
	}
}

// Start blocks until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	logger.Info("Notification worker started")

	go w.reportQueueLength(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *Worker) processNext(ctx context.Context) {
	result, err := w.redis.BRPop(ctx, popTimeout, QueueKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			logger.WithError(err).Warn("notification pop failed")
			time.Sleep(time.Second)
		}
		return
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad notification data: %v", err)
		return
	}

	job.Tries++
	if err := w.deliver(ctx, job); err != nil {
		logger.WithFields(map[string]interface{}{
			"event_type": job.EventType,
			"recipient":  job.RecipientUserID,
			"attempt":    job.Tries,
		}).Errorw("notification delivery failed", "error", err)

		if job.Tries < w.maxTries {
			metrics.RecordNotification(job.EventType, "retried")
			if w.retryDelay > 0 {
				time.Sleep(w.retryDelay)
			}
			w.requeue(job)
		} else {
			metrics.RecordNotification(job.EventType, "failed")
			w.saveFailed(job, err)
		}
		return
	}

	metrics.RecordNotification(job.EventType, "sent")
	logger.Debug("notification delivered", "event_type", job.EventType, "recipient", job.RecipientUserID)
}

// deliver runs every deliverer. Deliverers must be idempotent on job.ID since
// a retry replays the whole job.
func (w *Worker) deliver(ctx context.Context, job Job) error {
	var errs []error
	for _, d := range w.deliverers {
		if err := d.Deliver(ctx, job); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (w *Worker) requeue(job Job) {
	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal notification for retry: %v", err)
		return
	}
	if err := w.redis.LPush(context.Background(), QueueKey, data).Err(); err != nil {
		logger.Errorf("Failed to requeue notification %s: %v", job.ID, err)
	}
}

func (w *Worker) saveFailed(job Job, cause error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": cause.Error(),
		"time":  time.Now().UTC(),
	}
	data, _ := json.Marshal(failed)
	if err := w.redis.LPush(context.Background(), FailedQueueKey, data).Err(); err != nil {
		logger.Errorf("Failed to store failed notification %s: %v", job.ID, err)
		return
	}
	logger.Error("notification moved to failed queue", "id", job.ID, "event_type", job.EventType)
}

func (w *Worker) reportQueueLength(ctx context.Context) {
	ticker := time.NewTicker(queueReportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.recordQueueLength(ctx)
		}
	}
}

func (w *Worker) recordQueueLength(ctx context.Context) {
	n, err := w.queue.Length(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logger.WithError(err).Warn("failed to read notification queue length")
		}
		return
	}
	metrics.SetNotificationQueueLength(n)
}
