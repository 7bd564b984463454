package memory

import (
	"context"
	"errors"
	"testing"

	"bookinghub/internal/domain/entities"
	"bookinghub/internal/usecase/interfaces"
)

func draftsFor(recipients ...entities.Recipient) []entities.NotificationDraft {
	out := make([]entities.NotificationDraft, 0, len(recipients))
	for _, r := range recipients {
		out = append(out, entities.NotificationDraft{Recipient: r, Kind: entities.NotificationKindBookingTransition, Summary: "s"})
	}
	return out
}

func TestStore_CommitTransition(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	c1 := entities.SubjectRecipient("c1", entities.RoleCustomer)
	p1 := entities.SubjectRecipient("p1", entities.RoleProvider)

	b := entities.Booking{ID: "b1", CustomerID: "c1", ProviderID: "p1", State: entities.BookingStateRequested}
	if _, notes, err := s.CommitCreation(ctx, b, draftsFor(p1)); err != nil || len(notes) != 1 || notes[0].Sequence != 1 {
		t.Fatalf("CommitCreation() = %v, %v", notes, err)
	}
	if _, _, err := s.CommitCreation(ctx, b, nil); !errors.Is(err, interfaces.ErrBookingExists) {
		t.Fatalf("expected ErrBookingExists, got %v", err)
	}

	next := b
	next.State, next.Version = entities.BookingStateAccepted, 1
	_, notes, err := s.CommitTransition(ctx, interfaces.TransitionCommit{Booking: next, ExpectedVersion: 0, Notifications: draftsFor(c1, p1)})
	if err != nil {
		t.Fatalf("CommitTransition() error: %v", err)
	}
	if notes[0].Sequence != 1 || notes[1].Sequence != 2 {
		t.Fatalf("unexpected sequences: %+v", notes)
	}

	t.Run("stale version writes nothing", func(t *testing.T) {
		stale := next
		stale.State, stale.Version = entities.BookingStateCancelled, 1
		_, _, err := s.CommitTransition(ctx, interfaces.TransitionCommit{Booking: stale, ExpectedVersion: 0, Notifications: draftsFor(c1)})
		if !errors.Is(err, interfaces.ErrVersionMismatch) {
			t.Fatalf("expected ErrVersionMismatch, got %v", err)
		}
		got, _ := s.GetByID(ctx, "b1")
		items, _ := s.ListSince(ctx, "c1", 0, 0)
		if got.State != entities.BookingStateAccepted || len(items) != 1 {
			t.Fatalf("stale commit leaked: %+v %d", got, len(items))
		}
	})

	t.Run("fault aborts booking and notifications together", func(t *testing.T) {
		s.SetFault(func(op string) error {
			if op == "transition" {
				return errors.New("disk full")
			}
			return nil
		})
		defer s.SetFault(nil)

		started := next
		started.State, started.Version = entities.BookingStateInProgress, 2
		if _, _, err := s.CommitTransition(ctx, interfaces.TransitionCommit{Booking: started, ExpectedVersion: 1, Notifications: draftsFor(c1)}); err == nil {
			t.Fatalf("expected fault error")
		}
		got, _ := s.GetByID(ctx, "b1")
		items, _ := s.ListSince(ctx, "c1", 0, 0)
		if got.Version != 1 || len(items) != 1 {
			t.Fatalf("faulted commit leaked: %+v %d", got, len(items))
		}
	})
}

func TestStore_Streams(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	admins := entities.GroupRecipient(entities.GroupAdmins)
	if _, err := s.Append(ctx, draftsFor(admins, admins, admins, admins)); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	page, _ := s.ListSince(ctx, "group:admins", 1, 2)
	if len(page) != 2 || page[0].Sequence != 2 || page[1].Sequence != 3 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if page, _ := s.ListSince(ctx, "group:admins", 4, 0); len(page) != 0 {
		t.Fatalf("expected empty page past the head")
	}

	if acked, _ := s.Ack(ctx, "group:admins", 3); acked != 3 {
		t.Fatalf("Ack() = %d", acked)
	}
	if acked, _ := s.Ack(ctx, "group:admins", 2); acked != 3 {
		t.Fatalf("ack must not move backwards, got %d", acked)
	}
	if acked, _ := s.Ack(ctx, "group:admins", 99); acked != 4 {
		t.Fatalf("ack must clamp to the head, got %d", acked)
	}

	if err := s.MarkDelivered(ctx, "group:admins", 2); err != nil {
		t.Fatalf("MarkDelivered() error: %v", err)
	}
	page, _ = s.ListSince(ctx, "group:admins", 0, 0)
	if page[0].Delivered || !page[1].Delivered {
		t.Fatalf("unexpected delivered flags: %+v", page)
	}
}
