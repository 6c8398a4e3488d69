package booking

import (
	"context"
	"time"

	"photobook/internal/api"
)

type Repository interface {
	// WithTx runs fn in a transaction; repository calls made with the
	// context passed to fn join it.
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	// LockPhotographer serializes booking creation for one photographer
	// until the surrounding transaction ends.
	LockPhotographer(ctx context.Context, photographerID string) error
	HasOverlap(ctx context.Context, photographerID string, startAt, endAt time.Time) (bool, error)
	Insert(ctx context.Context, b *Booking) error

	GetByID(ctx context.Context, id string) (*Booking, error)
	// UpdateState moves the booking only if it is still in from. It reports
	// false when the row was not in the expected state.
	UpdateState(ctx context.Context, id string, from, to State, cancellationReason *string, at time.Time) (bool, error)
	InsertTransition(ctx context.Context, t Transition) error

	ListByClient(ctx context.Context, clientID string, page api.PageParams) ([]Booking, error)
	ListByPhotographer(ctx context.Context, photographerID string, page api.PageParams) ([]Booking, error)

	StatsByDay(ctx context.Context, from, to time.Time) ([]DayStats, error)
	StatsByState(ctx context.Context, from, to time.Time) ([]StateStats, error)
}
