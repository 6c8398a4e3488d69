package booking

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"photobook/internal/api"
	"photobook/internal/apperr"
	"photobook/internal/auth"
	"photobook/internal/clock"
	"photobook/internal/logger"
	"photobook/internal/metrics"
	"photobook/internal/notify"
	"photobook/internal/photographer"

	"github.com/google/uuid"
)

const reminderTimeout = 5 * time.Second

var (
	ErrOnlyClientsBook = apperr.Authorization("Only clients can create bookings")
	ErrNotParticipant  = apperr.Authorization("You are not a participant of this booking")
	ErrPackageMissing  = apperr.Validation("Package not found")
	ErrPackageMismatch = apperr.Validation("Package does not belong to this photographer")
)

// Catalog resolves photographers and their packages.
type Catalog interface {
	GetProfileByID(ctx context.Context, id string) (*photographer.Profile, error)
	GetProfileByUserID(ctx context.Context, userID string) (*photographer.Profile, error)
	GetPackageByID(ctx context.Context, id string) (*photographer.Package, error)
}

// Reminders schedules the pre-session reminder of a confirmed booking.
type Reminders interface {
	Schedule(ctx context.Context, bookingID string, startAt time.Time) error
	Cancel(ctx context.Context, bookingID string) error
}

type Service interface {
	Create(ctx context.Context, actor auth.Actor, req CreateBookingRequest) (*Booking, error)
	Get(ctx context.Context, actor auth.Actor, id string) (*Booking, error)
	ListMine(ctx context.Context, actor auth.Actor, page api.PageParams) ([]Booking, error)
	ListReceived(ctx context.Context, actor auth.Actor, page api.PageParams) ([]Booking, error)
	Transition(ctx context.Context, actor auth.Actor, id string, req TransitionRequest) (*Booking, error)
	Stats(ctx context.Context, q StatsQuery) (*StatsResponse, error)
}

type service struct {
	repo      Repository
	catalog   Catalog
	sink      notify.Sink
	reminders Reminders
	clock     clock.Clock
}

func NewService(repo Repository, catalog Catalog, sink notify.Sink, reminders Reminders, clk clock.Clock) Service {
	if sink == nil {
		sink = notify.Nop{}
	}
	return &service{
		repo:      repo,
		catalog:   catalog,
		sink:      sink,
		reminders: reminders,
		clock:     clk,
	}
}

func (s *service) Create(ctx context.Context, actor auth.Actor, req CreateBookingRequest) (*Booking, error) {
	if actor.Role != auth.RoleClient {
		return nil, ErrOnlyClientsBook
	}

	startAt, endAt := req.StartAt.UTC(), req.EndAt.UTC()
	if !startAt.Before(endAt) {
		return nil, apperr.Validation("start_at must be before end_at")
	}
	if startAt.Before(s.clock.Now()) {
		return nil, apperr.Validation("start_at must not be in the past")
	}
	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > MaxNotesLength {
		return nil, apperr.Validation(fmt.Sprintf("notes must be at most %d characters", MaxNotesLength))
	}
	if req.PriceCents != nil && *req.PriceCents < 0 {
		return nil, apperr.Validation("price_cents must not be negative")
	}

	profile, err := s.catalog.GetProfileByID(ctx, req.PhotographerID)
	if err != nil {
		return nil, err
	}

	price, err := s.resolvePrice(ctx, profile, req)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	b := &Booking{
		ID:                 uuid.NewString(),
		ClientID:           actor.UserID,
		PhotographerID:     profile.ID,
		PhotographerUserID: profile.UserID,
		PackageID:          req.PackageID,
		StartAt:            startAt,
		EndAt:              endAt,
		PriceCents:         price,
		Location:           req.Location,
		Notes:              req.Notes,
		State:              StatePending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context) error {
		if err := s.repo.LockPhotographer(ctx, profile.ID); err != nil {
			return err
		}

		overlap, err := s.repo.HasOverlap(ctx, profile.ID, startAt, endAt)
		if err != nil {
			return err
		}
		if overlap {
			return ErrSlotUnavailable
		}

		return s.repo.Insert(ctx, b)
	})
	if err != nil {
		if errors.Is(err, ErrSlotUnavailable) {
			metrics.RecordBookingConflict()
		}
		return nil, err
	}

	metrics.RecordBookingCreated()
	logger.Info("booking created",
		"booking_id", b.ID,
		"photographer_id", b.PhotographerID,
		"client_id", b.ClientID,
	)

	s.notify(ctx, b.PhotographerUserID, notify.EventBookingCreated, payloadFor(b, "", SideClient))
	return b, nil
}

// resolvePrice returns the explicit price override, falling back to the
// package price.
func (s *service) resolvePrice(ctx context.Context, profile *photographer.Profile, req CreateBookingRequest) (int64, error) {
	if req.PackageID == nil {
		if req.PriceCents == nil {
			return 0, apperr.Validation("price_cents is required when no package is selected")
		}
		return *req.PriceCents, nil
	}

	pkg, err := s.catalog.GetPackageByID(ctx, *req.PackageID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return 0, ErrPackageMissing
		}
		return 0, err
	}
	if pkg.PhotographerID != profile.ID {
		return 0, ErrPackageMismatch
	}

	if req.PriceCents != nil {
		return *req.PriceCents, nil
	}
	return pkg.PriceCents, nil
}

func (s *service) Get(ctx context.Context, actor auth.Actor, id string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Bookings of other people are indistinguishable from missing ones.
	if !canView(actor, b) {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

func (s *service) ListMine(ctx context.Context, actor auth.Actor, page api.PageParams) ([]Booking, error) {
	return s.repo.ListByClient(ctx, actor.UserID, page)
}

func (s *service) ListReceived(ctx context.Context, actor auth.Actor, page api.PageParams) ([]Booking, error) {
	profile, err := s.catalog.GetProfileByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByPhotographer(ctx, profile.ID, page)
}

func (s *service) Transition(ctx context.Context, actor auth.Actor, id string, req TransitionRequest) (*Booking, error) {
	to := req.ToState
	if !to.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("unknown state %q", to))
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	side, ok := sideOf(actor, b)
	if !ok {
		return nil, ErrNotParticipant
	}

	from := b.State
	required, ok := Edge(from, to)
	if !ok {
		return nil, invalidTransition(from, to)
	}
	if !mayDrive(side, required) {
		return nil, apperr.Authorization(fmt.Sprintf("%s cannot move a booking to %s", side, to))
	}

	now := s.clock.Now()
	var cancellationReason *string
	if to.Cancelled() {
		cancellationReason = req.Reason
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context) error {
		applied, err := s.repo.UpdateState(ctx, b.ID, from, to, cancellationReason, now)
		if err != nil {
			return err
		}
		if !applied {
			// Someone else moved the booking after we read it.
			return invalidTransition(from, to)
		}

		return s.repo.InsertTransition(ctx, Transition{
			BookingID: b.ID,
			From:      from,
			To:        to,
			ActorID:   actor.UserID,
			Reason:    req.Reason,
			At:        now,
		})
	})
	if err != nil {
		return nil, err
	}

	b.State = to
	b.UpdatedAt = now
	if cancellationReason != nil {
		b.CancellationReason = cancellationReason
	}

	metrics.RecordTransition(string(from), string(to))
	logger.Info("booking transitioned",
		"booking_id", b.ID,
		"from", from,
		"to", to,
		"actor_id", actor.UserID,
		"side", side,
	)

	s.afterTransition(ctx, b, from, side, req.Reason)
	return b, nil
}

func (s *service) afterTransition(ctx context.Context, b *Booking, from State, side Side, reason *string) {
	payload := payloadFor(b, from, side)
	if reason != nil {
		payload["reason"] = *reason
	}

	event := eventFor(b.State)
	for _, userID := range recipients(side, b) {
		s.notify(ctx, userID, event, payload)
	}

	if s.reminders == nil {
		return
	}

	// The transition is committed; a caller that hangs up must not drop the reminder.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reminderTimeout)
	defer cancel()

	switch {
	case b.State == StateConfirmed:
		if err := s.reminders.Schedule(ctx, b.ID, b.StartAt); err != nil {
			logger.Error("failed to schedule reminder", "booking_id", b.ID, "error", err)
		}
	case b.State.Cancelled():
		if err := s.reminders.Cancel(ctx, b.ID); err != nil {
			logger.Error("failed to cancel reminder", "booking_id", b.ID, "error", err)
		}
	}
}

func (s *service) Stats(ctx context.Context, q StatsQuery) (*StatsResponse, error) {
	if !q.From.Before(q.To) {
		return nil, apperr.Validation("from must be before to")
	}

	resp := &StatsResponse{GroupBy: q.GroupBy, From: q.From, To: q.To}
	var err error
	switch q.GroupBy {
	case GroupByDay:
		resp.Days, err = s.repo.StatsByDay(ctx, q.From, q.To)
	case GroupByState:
		resp.States, err = s.repo.StatsByState(ctx, q.From, q.To)
	default:
		return nil, apperr.Validation("group_by must be one of: day, state")
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// notify never fails the caller; delivery problems are only logged.
func (s *service) notify(ctx context.Context, userID, event string, payload notify.Payload) {
	if userID == "" {
		return
	}
	if err := s.sink.Notify(ctx, userID, event, payload); err != nil {
		logger.Error("failed to queue notification",
			"event_type", event,
			"recipient", userID,
			"error", err,
		)
	}
}

func invalidTransition(from, to State) error {
	return apperr.InvalidTransition(fmt.Sprintf("cannot transition booking from %s to %s", from, to))
}

func eventFor(s State) string {
	switch s {
	case StateConfirmed:
		return notify.EventBookingConfirmed
	case StateInProgress:
		return notify.EventBookingStarted
	case StateCompleted:
		return notify.EventBookingCompleted
	default:
		return notify.EventBookingCancelled
	}
}

func payloadFor(b *Booking, from State, side Side) notify.Payload {
	p := notify.Payload{
		"booking_id":      b.ID,
		"photographer_id": b.PhotographerID,
		"client_id":       b.ClientID,
		"state":           string(b.State),
		"start_at":        b.StartAt.Format(time.RFC3339),
		"end_at":          b.EndAt.Format(time.RFC3339),
		"actor":           string(side),
	}
	if from != "" {
		p["from_state"] = string(from)
	}
	return p
}
