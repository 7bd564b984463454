package response

import (
	"time"

	"bookinghub/internal/domain/entities"
)

type BookingResponse struct {
	ID               string     `json:"id"`
	CustomerID       string     `json:"customer_id"`
	ProviderID       *string    `json:"provider_id"`
	ServiceID        string     `json:"service_id"`
	Notes            string     `json:"notes,omitempty"`
	ScheduledFor     *time.Time `json:"scheduled_for,omitempty"`
	State            string     `json:"state"`
	Version          int64      `json:"version"`
	CreatedAt        time.Time  `json:"created_at"`
	LastTransitionAt time.Time  `json:"last_transition_at"`
}

func FromBooking(b entities.Booking) BookingResponse {
	res := BookingResponse{
		ID:               b.ID,
		CustomerID:       b.CustomerID,
		ServiceID:        b.ServiceID,
		Notes:            b.Notes,
		State:            string(b.State),
		Version:          b.Version,
		CreatedAt:        b.CreatedAt,
		LastTransitionAt: b.LastTransitionAt,
	}
	if b.HasProvider() {
		providerID := b.ProviderID
		res.ProviderID = &providerID
	}
	if !b.ScheduledFor.IsZero() {
		scheduledFor := b.ScheduledFor
		res.ScheduledFor = &scheduledFor
	}
	return res
}

func FromBookings(items []entities.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(items))
	for _, b := range items {
		out = append(out, FromBooking(b))
	}
	return out
}
