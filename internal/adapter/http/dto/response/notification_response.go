package response

import (
	"time"

	"bookinghub/internal/domain/entities"
)

type NotificationResponse struct {
	ID        string    `json:"id"`
	Stream    string    `json:"stream"`
	Sequence  int64     `json:"sequence"`
	Kind      string    `json:"kind"`
	BookingID string    `json:"booking_id,omitempty"`
	State     string    `json:"state,omitempty"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
	Delivered bool      `json:"delivered"`
}

// BacklogResponse is one page of a stream. NextSince is the cursor for the
// following page (the last sequence returned, or the requested since when
// the page is empty).
type BacklogResponse struct {
	Stream    string                 `json:"stream"`
	Items     []NotificationResponse `json:"items"`
	NextSince int64                  `json:"next_since"`
}

type AckResponse struct {
	Stream   string `json:"stream"`
	Sequence int64  `json:"sequence"`
}

type BroadcastResponse struct {
	Stream   string `json:"stream"`
	Sequence int64  `json:"sequence"`
	ID       string `json:"id"`
}

func FromNotification(n entities.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Stream:    n.Recipient.StreamKey(),
		Sequence:  n.Sequence,
		Kind:      string(n.Kind),
		BookingID: n.BookingID,
		State:     string(n.State),
		Summary:   n.Summary,
		CreatedAt: n.CreatedAt,
		Delivered: n.Delivered,
	}
}

func FromBacklog(stream string, since int64, items []entities.Notification) BacklogResponse {
	res := BacklogResponse{
		Stream:    stream,
		Items:     make([]NotificationResponse, 0, len(items)),
		NextSince: since,
	}
	for _, n := range items {
		res.Items = append(res.Items, FromNotification(n))
		res.NextSince = n.Sequence
	}
	return res
}
