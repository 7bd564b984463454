package interfaces

import (
	"context"

	"bookinghub/internal/domain/entities"
)

//go:generate mockgen -source=booking_repository_interface.go -destination=mocks/mock_booking_repository_interface.go -package=mock_interfaces

// IBookingRepository abstracts DynamoDB reads of Booking. Writes never go
// through it; see ITransitionStore.
//
// GetByID returns a zero Booking (empty ID) when the booking does not exist.

type IBookingRepository interface {
	GetByID(ctx context.Context, id string) (entities.Booking, error)
	ListByCustomerID(ctx context.Context, customerID string) ([]entities.Booking, error)
	ListByProviderID(ctx context.Context, providerID string) ([]entities.Booking, error)
}
