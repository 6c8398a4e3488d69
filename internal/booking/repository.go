package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"photobook/internal/api"
	"photobook/internal/apperr"
	"photobook/internal/db"
	"photobook/internal/photographer"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrBookingNotFound  = apperr.NotFound("Booking not found")
	ErrSlotUnavailable  = apperr.Conflict("time slot unavailable")
	liveStatesCondition = fmt.Sprintf("state IN ('%s', '%s', '%s')", StatePending, StateConfirmed, StateInProgress)
)

const selectBooking = `
	SELECT
		b.id,
		b.client_id,
		b.photographer_id,
		p.user_id AS photographer_user_id,
		b.package_id,
		b.start_at,
		b.end_at,
		b.price_cents,
		b.location,
		b.notes,
		b.state,
		b.cancellation_reason,
		b.created_at,
		b.updated_at
	FROM bookings b
	JOIN photographer_profiles p ON p.id = b.photographer_id`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return db.WithTx(ctx, r.db, fn)
}

func (r *repository) LockPhotographer(ctx context.Context, photographerID string) error {
	var id string
	err := db.Querier(ctx, r.db).GetContext(ctx, &id,
		`SELECT id FROM photographer_profiles WHERE id = $1 FOR UPDATE`, photographerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return photographer.ErrPhotographerNotFound
		}
		return fmt.Errorf("lock photographer: %w", err)
	}
	return nil
}

// HasOverlap checks for a live booking whose [start_at, end_at) window
// intersects the given one. Touching windows do not intersect.
func (r *repository) HasOverlap(ctx context.Context, photographerID string, startAt, endAt time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE photographer_id = $1
			  AND ` + liveStatesCondition + `
			  AND start_at < $3
			  AND end_at > $2
		)`

	var exists bool
	if err := db.Querier(ctx, r.db).GetContext(ctx, &exists, query, photographerID, startAt, endAt); err != nil {
		return false, fmt.Errorf("check overlap: %w", err)
	}
	return exists, nil
}

func (r *repository) Insert(ctx context.Context, b *Booking) error {
	query := `
		INSERT INTO bookings (
			id, client_id, photographer_id, package_id, start_at, end_at,
			price_cents, location, notes, state, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := db.Querier(ctx, r.db).ExecContext(ctx, query,
		b.ID, b.ClientID, b.PhotographerID, b.PackageID, b.StartAt, b.EndAt,
		b.PriceCents, b.Location, b.Notes, b.State, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		if db.IsExclusionViolation(err) {
			return ErrSlotUnavailable
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Booking, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrBookingNotFound
	}

	var b Booking
	err := db.Querier(ctx, r.db).GetContext(ctx, &b, selectBooking+" WHERE b.id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("select booking: %w", err)
	}
	return &b, nil
}

func (r *repository) UpdateState(ctx context.Context, id string, from, to State, cancellationReason *string, at time.Time) (bool, error) {
	query := `
		UPDATE bookings
		SET state = $3,
		    updated_at = $4,
		    cancellation_reason = COALESCE($5, cancellation_reason)
		WHERE id = $1 AND state = $2`

	res, err := db.Querier(ctx, r.db).ExecContext(ctx, query, id, from, to, at, cancellationReason)
	if err != nil {
		return false, fmt.Errorf("update booking state: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update booking state: %w", err)
	}
	return n == 1, nil
}

func (r *repository) InsertTransition(ctx context.Context, t Transition) error {
	query := `
		INSERT INTO booking_transitions (booking_id, from_state, to_state, actor_id, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := db.Querier(ctx, r.db).ExecContext(ctx, query, t.BookingID, t.From, t.To, t.ActorID, t.Reason, t.At)
	if err != nil {
		return fmt.Errorf("insert booking transition: %w", err)
	}
	return nil
}

func (r *repository) ListByClient(ctx context.Context, clientID string, page api.PageParams) ([]Booking, error) {
	return r.list(ctx, "b.client_id = $1", clientID, page)
}

func (r *repository) ListByPhotographer(ctx context.Context, photographerID string, page api.PageParams) ([]Booking, error) {
	return r.list(ctx, "b.photographer_id = $1", photographerID, page)
}

func (r *repository) list(ctx context.Context, where, arg string, page api.PageParams) ([]Booking, error) {
	query := selectBooking + " WHERE " + where + " ORDER BY b.created_at DESC, b.id DESC LIMIT $2 OFFSET $3"

	bookings := []Booking{}
	if err := db.Querier(ctx, r.db).SelectContext(ctx, &bookings, query, arg, page.Limit, page.Offset()); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}
