package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"photobook/internal/api"
	"photobook/internal/notify"
	"photobook/internal/photographer"
)

// fakeRepo keeps bookings in memory. WithTx holds a single lock for the whole
// callback, which plays the role of the photographer row lock. Insert does not
// check for overlaps, so only the service's locked check keeps windows apart.
type fakeRepo struct {
	txMu sync.Mutex
	mu   sync.Mutex

	bookings map[string]*Booking
	owners   map[string]string // profile id -> photographer user id
	audit    []Transition

	// beforeUpdate runs inside UpdateState before the state check.
	beforeUpdate func(b *Booking)
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		bookings: map[string]*Booking{},
		owners:   map[string]string{},
	}
}

func (f *fakeRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.txMu.Lock()
	defer f.txMu.Unlock()
	return fn(ctx)
}

func (f *fakeRepo) LockPhotographer(_ context.Context, photographerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.owners[photographerID]; !ok {
		return photographer.ErrPhotographerNotFound
	}
	return nil
}

func (f *fakeRepo) overlapsLocked(photographerID string, startAt, endAt time.Time) bool {
	for _, b := range f.bookings {
		if b.PhotographerID == photographerID && b.State.Live() &&
			b.StartAt.Before(endAt) && b.EndAt.After(startAt) {
			return true
		}
	}
	return false
}

func (f *fakeRepo) HasOverlap(_ context.Context, photographerID string, startAt, endAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.overlapsLocked(photographerID, startAt, endAt), nil
}

func (f *fakeRepo) Insert(_ context.Context, b *Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *b
	cp.PhotographerUserID = f.owners[b.PhotographerID]
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeRepo) UpdateState(_ context.Context, id string, from, to State, reason *string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return false, nil
	}
	if f.beforeUpdate != nil {
		f.beforeUpdate(b)
	}
	if b.State != from {
		return false, nil
	}
	b.State = to
	b.UpdatedAt = at
	if reason != nil {
		b.CancellationReason = reason
	}
	return true, nil
}

func (f *fakeRepo) InsertTransition(_ context.Context, t Transition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.audit = append(f.audit, t)
	return nil
}

func (f *fakeRepo) list(match func(*Booking) bool, page api.PageParams) []Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []Booking{}
	for _, b := range f.bookings {
		if match(b) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if page.Offset() >= len(out) {
		return []Booking{}
	}
	out = out[page.Offset():]
	if len(out) > page.Limit {
		out = out[:page.Limit]
	}
	return out
}

func (f *fakeRepo) ListByClient(_ context.Context, clientID string, page api.PageParams) ([]Booking, error) {
	return f.list(func(b *Booking) bool { return b.ClientID == clientID }, page), nil
}

func (f *fakeRepo) ListByPhotographer(_ context.Context, photographerID string, page api.PageParams) ([]Booking, error) {
	return f.list(func(b *Booking) bool { return b.PhotographerID == photographerID }, page), nil
}

func (f *fakeRepo) StatsByDay(context.Context, time.Time, time.Time) ([]DayStats, error) {
	return []DayStats{{Bucket: "2026-06-01", BookingsCreated: 2}}, nil
}

func (f *fakeRepo) StatsByState(context.Context, time.Time, time.Time) ([]StateStats, error) {
	return []StateStats{{State: StatePending, Count: 2}}, nil
}

type fakeCatalog struct {
	profiles map[string]*photographer.Profile
	packages map[string]*photographer.Package
}

func (c *fakeCatalog) GetProfileByID(_ context.Context, id string) (*photographer.Profile, error) {
	if p, ok := c.profiles[id]; ok {
		return p, nil
	}
	return nil, photographer.ErrPhotographerNotFound
}

func (c *fakeCatalog) GetProfileByUserID(_ context.Context, userID string) (*photographer.Profile, error) {
	for _, p := range c.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, photographer.ErrProfileNotFound
}

func (c *fakeCatalog) GetPackageByID(_ context.Context, id string) (*photographer.Package, error) {
	if p, ok := c.packages[id]; ok {
		return p, nil
	}
	return nil, photographer.ErrPackageNotFound
}

type sentNotification struct {
	recipient string
	event     string
	payload   notify.Payload
}

type fakeSink struct {
	mu   sync.Mutex
	sent []sentNotification
	err  error
}

func (s *fakeSink) Notify(_ context.Context, recipient, event string, payload notify.Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentNotification{recipient, event, payload})
	return s.err
}

func (s *fakeSink) events() []sentNotification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sentNotification(nil), s.sent...)
}

type fakeReminders struct {
	mu        sync.Mutex
	scheduled map[string]time.Time
	cancelled []string
	ctxErrs   []error
}

func (r *fakeReminders) Schedule(ctx context.Context, bookingID string, startAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctxErrs = append(r.ctxErrs, ctx.Err())
	if r.scheduled == nil {
		r.scheduled = map[string]time.Time{}
	}
	r.scheduled[bookingID] = startAt
	return nil
}

func (r *fakeReminders) Cancel(ctx context.Context, bookingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctxErrs = append(r.ctxErrs, ctx.Err())
	delete(r.scheduled, bookingID)
	r.cancelled = append(r.cancelled, bookingID)
	return nil
}
