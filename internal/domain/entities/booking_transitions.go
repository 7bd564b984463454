package entities

// BookingTransition is one edge of the booking state machine together with
// the roles allowed to take it.
type BookingTransition struct {
	From   BookingState
	To     BookingState
	Actors []Role
}

func (t BookingTransition) Allows(role Role) bool {
	for _, r := range t.Actors {
		if r == role {
			return true
		}
	}
	return false
}

// BookingTransitions is the complete transition matrix. Anything not listed
// here is an invalid transition.
var BookingTransitions = []BookingTransition{
	{From: BookingStateRequested, To: BookingStateAccepted, Actors: []Role{RoleProvider}},
	{From: BookingStateRequested, To: BookingStateCancelled, Actors: []Role{RoleCustomer, RoleAdmin}},
	{From: BookingStateAccepted, To: BookingStateInProgress, Actors: []Role{RoleProvider}},
	{From: BookingStateAccepted, To: BookingStateCancelled, Actors: []Role{RoleCustomer, RoleProvider, RoleAdmin}},
	{From: BookingStateInProgress, To: BookingStateCompleted, Actors: []Role{RoleProvider}},
	{From: BookingStateInProgress, To: BookingStateDisputed, Actors: []Role{RoleCustomer, RoleAdmin}},
	// admin override: any non-terminal state may be disputed
	{From: BookingStateRequested, To: BookingStateDisputed, Actors: []Role{RoleAdmin}},
	{From: BookingStateAccepted, To: BookingStateDisputed, Actors: []Role{RoleAdmin}},
}

// FindBookingTransition looks up the edge from -> to.
func FindBookingTransition(from, to BookingState) (BookingTransition, bool) {
	for _, t := range BookingTransitions {
		if t.From == from && t.To == to {
			return t, true
		}
	}
	return BookingTransition{}, false
}
