package entities

import "time"

// BookingState represents the lifecycle of a booking.
//
// Domain notes:
//   - The booking core is the source of truth for booking state.
//   - State only changes through the transition engine (see BookingTransitions).
//   - COMPLETED, CANCELLED and DISPUTED are terminal and retained for audit.

type BookingState string

const (
	BookingStateRequested  BookingState = "REQUESTED"
	BookingStateAccepted   BookingState = "ACCEPTED"
	BookingStateInProgress BookingState = "IN_PROGRESS"
	BookingStateCompleted  BookingState = "COMPLETED"
	BookingStateCancelled  BookingState = "CANCELLED"
	BookingStateDisputed   BookingState = "DISPUTED"
)

var bookingStates = map[BookingState]bool{
	BookingStateRequested:  false,
	BookingStateAccepted:   false,
	BookingStateInProgress: false,
	BookingStateCompleted:  true,
	BookingStateCancelled:  true,
	BookingStateDisputed:   true,
}

// ParseBookingState accepts the canonical upper-case names only.
func ParseBookingState(s string) (BookingState, bool) {
	st := BookingState(s)
	_, ok := bookingStates[st]
	return st, ok
}

func (s BookingState) IsTerminal() bool {
	return bookingStates[s]
}

// Booking is one service engagement persisted in DynamoDB.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI (customer_id-index): customer_id
//   - GSI (provider_id-index): provider_id
//
// Version is the optimistic concurrency token: 0 at creation, incremented
// by exactly one on every committed transition.
type Booking struct {
	ID               string       `json:"id"`
	CustomerID       string       `json:"customer_id"`
	ProviderID       string       `json:"provider_id,omitempty"`
	ServiceID        string       `json:"service_id"`
	Notes            string       `json:"notes,omitempty"`
	ScheduledFor     time.Time    `json:"scheduled_for"`
	State            BookingState `json:"state"`
	Version          int64        `json:"version"`
	CreatedAt        time.Time    `json:"created_at"`
	LastTransitionAt time.Time    `json:"last_transition_at"`
}

func (b Booking) HasProvider() bool {
	return b.ProviderID != ""
}

// IsParty reports whether subjectID is the booking's customer or provider.
func (b Booking) IsParty(subjectID string) bool {
	return subjectID != "" && (b.CustomerID == subjectID || b.ProviderID == subjectID)
}
