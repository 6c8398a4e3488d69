package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"photobook/internal/api"
	"photobook/internal/apperr"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrNotificationNotFound = apperr.NotFound("Notification not found")

type Notification struct {
	ID        string          `db:"id" json:"id"`
	UserID    string          `db:"user_id" json:"user_id"`
	EventType string          `db:"event_type" json:"event_type"`
	Payload   json.RawMessage `db:"payload" json:"payload"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	ReadAt    *time.Time      `db:"read_at" json:"read_at,omitempty"`
}

// InboxRepository persists notifications per user. As a Deliverer it is fed
// by the Worker.
type InboxRepository interface {
	Deliverer
	ListForUser(ctx context.Context, userID string, unreadOnly bool, page api.PageParams) ([]Notification, error)
	MarkRead(ctx context.Context, userID, id string, at time.Time) error
}

type inboxRepository struct {
	db *sqlx.DB
}

func NewInboxRepository(db *sqlx.DB) InboxRepository {
	return &inboxRepository{db: db}
}

// Store inserts the job once; replays of the same job ID are ignored.
func (r *inboxRepository) Store(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job.Payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	query := `
		INSERT INTO notifications (id, user_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`
	_, err = r.db.ExecContext(ctx, query, job.ID, job.RecipientUserID, job.EventType, string(payload), job.Created)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *inboxRepository) Deliver(ctx context.Context, job Job) error {
	return r.Store(ctx, job)
}

func (r *inboxRepository) ListForUser(ctx context.Context, userID string, unreadOnly bool, page api.PageParams) ([]Notification, error) {
	query := `
		SELECT id, user_id, event_type, payload, created_at, read_at
		FROM notifications
		WHERE user_id = $1`
	if unreadOnly {
		query += " AND read_at IS NULL"
	}
	query += " ORDER BY created_at DESC LIMIT $2 OFFSET $3"

	out := []Notification{}
	if err := r.db.SelectContext(ctx, &out, query, userID, page.Limit, page.Offset()); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

func (r *inboxRepository) MarkRead(ctx context.Context, userID, id string, at time.Time) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotificationNotFound
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read_at = COALESCE(read_at, $3) WHERE id = $1 AND user_id = $2`,
		id, userID, at)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if n == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
