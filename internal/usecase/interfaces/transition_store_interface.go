package interfaces

import (
	"context"

	"bookinghub/internal/domain/entities"
)

//go:generate mockgen -source=transition_store_interface.go -destination=mocks/mock_transition_store_interface.go -package=mock_interfaces

// TransitionCommit is one booking state change plus the notifications it
// produces. Both are written as a single atomic unit.
type TransitionCommit struct {
	Booking         entities.Booking
	ExpectedVersion int64
	Notifications   []entities.NotificationDraft
}

// ITransitionStore is the only writer of bookings.
//
// CommitCreation inserts a new booking (ErrBookingExists if the id is taken)
// together with its notifications. CommitTransition writes a transition and
// its notifications atomically: the booking update is conditioned on the
// stored version being ExpectedVersion (compare-and-swap) and notifications
// get their sequence numbers in the same write.
//
// Errors:
//   - ErrVersionMismatch when the booking condition failed (or it is gone)
//   - ErrWriteContention when only the notification part lost a race
//
// In both cases nothing was written.

type ITransitionStore interface {
	CommitCreation(ctx context.Context, b entities.Booking, notifications []entities.NotificationDraft) (entities.Booking, []entities.Notification, error)
	CommitTransition(ctx context.Context, c TransitionCommit) (entities.Booking, []entities.Notification, error)
}
