package request

import (
	"strings"
	"time"

	"bookinghub/internal/domain/entities"
	"bookinghub/internal/usecase"
)

// CreateBookingRequest is sent by a customer requesting a service.
// ProviderID pre-selects the only provider allowed to accept.
type CreateBookingRequest struct {
	ServiceID    string     `json:"service_id" binding:"required"`
	ProviderID   string     `json:"provider_id"`
	Notes        string     `json:"notes"`
	ScheduledFor *time.Time `json:"scheduled_for"`
}

func (r CreateBookingRequest) ToInput() usecase.CreateBookingInput {
	in := usecase.CreateBookingInput{
		ServiceID:  strings.TrimSpace(r.ServiceID),
		ProviderID: strings.TrimSpace(r.ProviderID),
		Notes:      r.Notes,
	}
	if r.ScheduledFor != nil {
		in.ScheduledFor = r.ScheduledFor.UTC()
	}
	return in
}

// TransitionRequest asks to move a booking to TargetState. ExpectedVersion
// is the version the caller last read; it is required so a client cannot
// overwrite a change it has not seen.
type TransitionRequest struct {
	TargetState     string `json:"target_state" binding:"required"`
	ExpectedVersion *int64 `json:"expected_version" binding:"required"`
}

// ResolveTargetState accepts any case and "in-progress" style separators.
func (r TransitionRequest) ResolveTargetState() (entities.BookingState, bool) {
	s := strings.ToUpper(strings.TrimSpace(r.TargetState))
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	return entities.ParseBookingState(s)
}

// ListBookingsQuery filters an admin listing.
type ListBookingsQuery struct {
	CustomerID string `form:"customer_id"`
	ProviderID string `form:"provider_id"`
}

func (q ListBookingsQuery) ToFilter() usecase.ListBookingsFilter {
	return usecase.ListBookingsFilter{
		CustomerID: strings.TrimSpace(q.CustomerID),
		ProviderID: strings.TrimSpace(q.ProviderID),
	}
}
