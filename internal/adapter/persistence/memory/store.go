// Package memory is an in-process implementation of the booking and
// notification store contracts, used for local runs (STORE_DRIVER=memory)
// and tests. It gives the same atomicity guarantees as the DynamoDB
// repositories: a transition and its notifications become visible together
// or not at all.
//
// One mutex guards the whole store, so all commits are serialized. That is
// fine for local runs and tests; production concurrency is per item in the
// DynamoDB repositories.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"bookinghub/internal/domain/entities"
	"bookinghub/internal/usecase/interfaces"

	"github.com/google/uuid"
)

type stream struct {
	seq   int64
	acked int64
	items []entities.Notification
}

type Store struct {
	mu       sync.RWMutex
	bookings map[string]entities.Booking
	streams  map[string]*stream
	fault    func(op string) error
}

var (
	_ interfaces.IBookingRepository      = (*Store)(nil)
	_ interfaces.ITransitionStore        = (*Store)(nil)
	_ interfaces.INotificationRepository = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{
		bookings: make(map[string]entities.Booking),
		streams:  make(map[string]*stream),
	}
}

// SetFault installs a hook consulted before every write with the operation
// name ("create", "transition", "append", "ack", "delivered"); a non-nil
// result aborts the write with that error.
func (s *Store) SetFault(fault func(op string) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fault = fault
}

func (s *Store) checkFault(op string) error {
	if s.fault == nil {
		return nil
	}
	return s.fault(op)
}

func (s *Store) GetByID(ctx context.Context, id string) (entities.Booking, error) {
	if err := ctx.Err(); err != nil {
		return entities.Booking{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bookings[id], nil
}

func (s *Store) ListByCustomerID(ctx context.Context, customerID string) ([]entities.Booking, error) {
	return s.list(ctx, func(b entities.Booking) bool { return b.CustomerID == customerID })
}

func (s *Store) ListByProviderID(ctx context.Context, providerID string) ([]entities.Booking, error) {
	return s.list(ctx, func(b entities.Booking) bool { return b.ProviderID == providerID })
}

func (s *Store) list(ctx context.Context, match func(entities.Booking) bool) ([]entities.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.Booking, 0)
	for _, b := range s.bookings {
		if match(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) CommitCreation(ctx context.Context, b entities.Booking, drafts []entities.NotificationDraft) (entities.Booking, []entities.Notification, error) {
	if err := ctx.Err(); err != nil {
		return entities.Booking{}, nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFault("create"); err != nil {
		return entities.Booking{}, nil, err
	}
	if _, ok := s.bookings[b.ID]; ok {
		return entities.Booking{}, nil, interfaces.ErrBookingExists
	}
	s.bookings[b.ID] = b
	return b, s.appendLocked(drafts, b.CreatedAt), nil
}

func (s *Store) CommitTransition(ctx context.Context, c interfaces.TransitionCommit) (entities.Booking, []entities.Notification, error) {
	if err := ctx.Err(); err != nil {
		return entities.Booking{}, nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.bookings[c.Booking.ID]
	if !ok || current.Version != c.ExpectedVersion {
		return entities.Booking{}, nil, interfaces.ErrVersionMismatch
	}
	if err := s.checkFault("transition"); err != nil {
		return entities.Booking{}, nil, err
	}
	s.bookings[c.Booking.ID] = c.Booking
	return c.Booking, s.appendLocked(c.Notifications, c.Booking.LastTransitionAt), nil
}

func (s *Store) Append(ctx context.Context, drafts []entities.NotificationDraft) ([]entities.Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFault("append"); err != nil {
		return nil, err
	}
	return s.appendLocked(drafts, time.Now().UTC()), nil
}

func (s *Store) appendLocked(drafts []entities.NotificationDraft, at time.Time) []entities.Notification {
	out := make([]entities.Notification, 0, len(drafts))
	for _, d := range drafts {
		key := d.Recipient.StreamKey()
		st := s.streams[key]
		if st == nil {
			st = &stream{}
			s.streams[key] = st
		}
		st.seq++
		n := entities.Notification{
			ID:        uuid.NewString(),
			Sequence:  st.seq,
			Recipient: d.Recipient,
			Kind:      d.Kind,
			BookingID: d.BookingID,
			State:     d.State,
			Summary:   d.Summary,
			CreatedAt: at,
		}
		st.items = append(st.items, n)
		out = append(out, n)
	}
	return out
}

func (s *Store) ListSince(ctx context.Context, streamKey string, since int64, limit int) ([]entities.Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.streams[streamKey]
	if st == nil || since >= st.seq {
		return []entities.Notification{}, nil
	}
	// items[i].Sequence == i+1
	rest := st.items[since:]
	if limit > 0 && len(rest) > limit {
		rest = rest[:limit]
	}
	out := make([]entities.Notification, len(rest))
	copy(out, rest)
	return out, nil
}

func (s *Store) Ack(ctx context.Context, streamKey string, sequence int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFault("ack"); err != nil {
		return 0, err
	}
	st := s.streams[streamKey]
	if st == nil {
		st = &stream{}
		s.streams[streamKey] = st
	}
	if sequence > st.seq {
		sequence = st.seq
	}
	if sequence > st.acked {
		st.acked = sequence
	}
	return st.acked, nil
}

func (s *Store) LastAcked(ctx context.Context, streamKey string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st := s.streams[streamKey]; st != nil {
		return st.acked, nil
	}
	return 0, nil
}

func (s *Store) MarkDelivered(ctx context.Context, streamKey string, sequence int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFault("delivered"); err != nil {
		return err
	}
	st := s.streams[streamKey]
	if st == nil || sequence < 1 || sequence > st.seq {
		return nil
	}
	st.items[sequence-1].Delivered = true
	return nil
}
