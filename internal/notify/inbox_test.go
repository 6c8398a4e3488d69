package notify

import (
	"context"
	"regexp"
	"testing"
	"time"

	"photobook/internal/api"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const notificationID = "3c4d5e6f-0000-4a1b-9c2d-000000000010"

func setupInboxMock(t *testing.T) (*inboxRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { sqlxDB.Close() })
	return &inboxRepository{db: sqlxDB}, mock
}

func TestInboxStore(t *testing.T) {
	repo, mock := setupInboxMock(t)
	created := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	job := Job{
		ID:              notificationID,
		RecipientUserID: "user-1",
		EventType:       EventBookingCreated,
		Payload:         Payload{"booking_id": "b-1"},
		Created:         created,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notifications")).
		WithArgs(notificationID, "user-1", EventBookingCreated, `{"booking_id":"b-1"}`, created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Deliver(context.Background(), job))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInboxList(t *testing.T) {
	repo, mock := setupInboxMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1 AND read_at IS NULL ORDER BY created_at DESC LIMIT $2 OFFSET $3")).
		WithArgs("user-1", 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "event_type", "payload", "created_at", "read_at"}).
			AddRow(notificationID, "user-1", EventBookingCreated, []byte(`{"booking_id":"b-1"}`), now, nil))

	items, err := repo.ListForUser(context.Background(), "user-1", true, api.NewPageParams(1, 0))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.JSONEq(t, `{"booking_id":"b-1"}`, string(items[0].Payload))
	assert.Nil(t, items[0].ReadAt)
}

func TestInboxMarkRead(t *testing.T) {
	repo, mock := setupInboxMock(t)
	at := time.Now()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET read_at")).
		WithArgs(notificationID, "user-1", at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.MarkRead(context.Background(), "user-1", notificationID, at))

	// someone else's notification looks missing
	mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET read_at")).
		WithArgs(notificationID, "user-2", at).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.MarkRead(context.Background(), "user-2", notificationID, at), ErrNotificationNotFound)

	assert.ErrorIs(t, repo.MarkRead(context.Background(), "user-1", "nope", at), ErrNotificationNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
