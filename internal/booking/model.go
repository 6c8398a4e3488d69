package booking

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type State string

const (
	StatePending                 State = "pending"
	StateConfirmed               State = "confirmed"
	StateInProgress              State = "in_progress"
	StateCompleted               State = "completed"
	StateCancelledByClient       State = "cancelled_by_client"
	StateCancelledByPhotographer State = "cancelled_by_photographer"
)

var AllStates = []State{
	StatePending,
	StateConfirmed,
	StateInProgress,
	StateCompleted,
	StateCancelledByClient,
	StateCancelledByPhotographer,
}

func (s State) Valid() bool {
	for _, v := range AllStates {
		if s == v {
			return true
		}
	}
	return false
}

// Live states occupy the photographer's calendar.
func (s State) Live() bool {
	return s == StatePending || s == StateConfirmed || s == StateInProgress
}

func (s State) Cancelled() bool {
	return s == StateCancelledByClient || s == StateCancelledByPhotographer
}

func (s State) Terminal() bool {
	return s == StateCompleted || s.Cancelled()
}

// Side is the party of a booking allowed to drive a transition.
type Side string

const (
	SideClient       Side = "client"
	SidePhotographer Side = "photographer"
	SideAdmin        Side = "admin"
)

// transitions lists every legal edge and the side that may drive it.
// Admins may drive any edge.
var transitions = map[State]map[State]Side{
	StatePending: {
		StateConfirmed:               SidePhotographer,
		StateCancelledByPhotographer: SidePhotographer,
		StateCancelledByClient:       SideClient,
	},
	StateConfirmed: {
		StateCancelledByPhotographer: SidePhotographer,
		StateCancelledByClient:       SideClient,
		StateInProgress:              SidePhotographer,
	},
	StateInProgress: {
		StateCompleted: SidePhotographer,
	},
}

// Edge reports which side may move a booking from one state to another.
func Edge(from, to State) (Side, bool) {
	side, ok := transitions[from][to]
	return side, ok
}

func CanTransition(from, to State) bool {
	_, ok := Edge(from, to)
	return ok
}

// Location is stored as JSONB.
type Location struct {
	Address string   `json:"address" binding:"max=500"`
	Lat     *float64 `json:"lat,omitempty" binding:"omitempty,gte=-90,lte=90"`
	Lng     *float64 `json:"lng,omitempty" binding:"omitempty,gte=-180,lte=180"`
}

func (l Location) Value() (driver.Value, error) {
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *Location) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("location: unsupported type %T", src)
	}
}

type Booking struct {
	ID                 string    `db:"id" json:"id"`
	ClientID           string    `db:"client_id" json:"client_id"`
	PhotographerID     string    `db:"photographer_id" json:"photographer_id"`
	PhotographerUserID string    `db:"photographer_user_id" json:"-"`
	PackageID          *string   `db:"package_id" json:"package_id,omitempty"`
	StartAt            time.Time `db:"start_at" json:"start_at"`
	EndAt              time.Time `db:"end_at" json:"end_at"`
	PriceCents         int64     `db:"price_cents" json:"price_cents"`
	Location           *Location `db:"location" json:"location,omitempty"`
	Notes              *string   `db:"notes" json:"notes,omitempty"`
	State              State     `db:"state" json:"state"`
	CancellationReason *string   `db:"cancellation_reason" json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// Transition is one row of the booking audit trail.
type Transition struct {
	BookingID string    `db:"booking_id" json:"booking_id"`
	From      State     `db:"from_state" json:"from_state"`
	To        State     `db:"to_state" json:"to_state"`
	ActorID   string    `db:"actor_id" json:"actor_id"`
	Reason    *string   `db:"reason" json:"reason,omitempty"`
	At        time.Time `db:"created_at" json:"created_at"`
}

const MaxNotesLength = 2000

type CreateBookingRequest struct {
	PhotographerID string    `json:"photographer_id" binding:"required"`
	PackageID      *string   `json:"package_id"`
	StartAt        time.Time `json:"start_at" binding:"required"`
	EndAt          time.Time `json:"end_at" binding:"required"`
	PriceCents     *int64    `json:"price_cents" binding:"omitempty,gte=0"`
	Location       *Location `json:"location"`
	Notes          *string   `json:"notes" binding:"omitempty,max=2000"`
}

type TransitionRequest struct {
	ToState State   `json:"to_state" binding:"required,oneof=confirmed in_progress completed cancelled_by_client cancelled_by_photographer"`
	Reason  *string `json:"reason" binding:"omitempty,max=500"`
}

type DayStats struct {
	Bucket            string `db:"bucket" json:"bucket"`
	BookingsCreated   int    `db:"bookings_created" json:"bookings_created"`
	BookingsCancelled int    `db:"bookings_cancelled" json:"bookings_cancelled"`
	BookingsCompleted int    `db:"bookings_completed" json:"bookings_completed"`
}

type StateStats struct {
	State State `db:"state" json:"state"`
	Count int   `db:"count" json:"count"`
}

const (
	GroupByDay   = "day"
	GroupByState = "state"
)

type StatsQuery struct {
	GroupBy string
	From    time.Time
	To      time.Time
}

type StatsResponse struct {
	GroupBy string       `json:"group_by"`
	From    time.Time    `json:"from"`
	To      time.Time    `json:"to"`
	Days    []DayStats   `json:"days,omitempty"`
	States  []StateStats `json:"states,omitempty"`
}
