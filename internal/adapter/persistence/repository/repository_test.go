package repository

import (
	"errors"
	"testing"
	"time"

	"bookinghub/internal/domain/entities"
	"bookinghub/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestPlanSequences(t *testing.T) {
	drafts := []entities.NotificationDraft{
		{Recipient: entities.SubjectRecipient("c1", entities.RoleCustomer)},
		{Recipient: entities.SubjectRecipient("p1", entities.RoleProvider)},
		{Recipient: entities.SubjectRecipient("c1", entities.RoleCustomer)},
		{Recipient: entities.GroupRecipient(entities.GroupAdmins)},
	}
	current := map[string]int64{"c1": 4, "p1": 0, "group:admins": 9}

	p := planSequences(current, drafts)

	want := []int64{5, 1, 6, 10}
	for i, w := range want {
		if p.assigned[i] != w {
			t.Fatalf("assigned[%d] = %d, want %d", i, p.assigned[i], w)
		}
	}
	if len(p.order) != 3 || p.order[0] != "c1" || p.order[1] != "p1" || p.order[2] != "group:admins" {
		t.Fatalf("order = %v", p.order)
	}
	if p.next["c1"] != 6 || p.next["p1"] != 1 || p.next["group:admins"] != 10 {
		t.Fatalf("next = %v", p.next)
	}
}

func TestClassifyTransactErr(t *testing.T) {
	canceled := func(codes ...string) error {
		reasons := make([]types.CancellationReason, len(codes))
		for i, c := range codes {
			reasons[i] = types.CancellationReason{Code: aws.String(c)}
		}
		return &types.TransactionCanceledException{CancellationReasons: reasons}
	}

	t.Run("booking condition failed", func(t *testing.T) {
		err := classifyTransactErr(canceled("ConditionalCheckFailed", "None", "None"), 0)
		if !errors.Is(err, interfaces.ErrVersionMismatch) {
			t.Fatalf("expected ErrVersionMismatch, got %v", err)
		}
	})

	t.Run("stream condition failed", func(t *testing.T) {
		err := classifyTransactErr(canceled("None", "ConditionalCheckFailed", "None"), 0)
		if !errors.Is(err, interfaces.ErrWriteContention) {
			t.Fatalf("expected ErrWriteContention, got %v", err)
		}
	})

	t.Run("transaction conflict", func(t *testing.T) {
		err := classifyTransactErr(canceled("TransactionConflict", "None"), 0)
		if !errors.Is(err, interfaces.ErrWriteContention) {
			t.Fatalf("expected ErrWriteContention, got %v", err)
		}
	})

	t.Run("append without booking", func(t *testing.T) {
		err := classifyTransactErr(canceled("ConditionalCheckFailed"), -1)
		if !errors.Is(err, interfaces.ErrWriteContention) {
			t.Fatalf("expected ErrWriteContention, got %v", err)
		}
	})

	for _, code := range []string{"ThrottlingError", "ValidationError", "ProvisionedThroughputExceeded"} {
		t.Run("storage failure "+code, func(t *testing.T) {
			err := classifyTransactErr(canceled("None", code), 0)
			if errors.Is(err, interfaces.ErrWriteContention) || errors.Is(err, interfaces.ErrVersionMismatch) {
				t.Fatalf("%s must not be retried as contention, got %v", code, err)
			}
			var tce *types.TransactionCanceledException
			if !errors.As(err, &tce) {
				t.Fatalf("expected the original cancellation, got %v", err)
			}
		})
	}

	t.Run("throttled alongside stream conflict", func(t *testing.T) {
		err := classifyTransactErr(canceled("None", "ConditionalCheckFailed", "ThrottlingError"), 0)
		if errors.Is(err, interfaces.ErrWriteContention) {
			t.Fatalf("throttling must win over contention, got %v", err)
		}
	})

	t.Run("other errors untouched", func(t *testing.T) {
		boom := errors.New("boom")
		if err := classifyTransactErr(boom, 0); err != boom {
			t.Fatalf("expected boom, got %v", err)
		}
	})
}

func TestBookingItemRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	b := entities.Booking{
		ID:               "b1",
		CustomerID:       "c1",
		ServiceID:        "s1",
		State:            entities.BookingStateRequested,
		CreatedAt:        now,
		LastTransitionAt: now,
	}

	av, err := attributevalue.MarshalMap(toBookingItem(b))
	if err != nil {
		t.Fatalf("MarshalMap error: %v", err)
	}
	if _, ok := av["provider_id"]; ok {
		t.Fatalf("provider_id must be omitted while unassigned (sparse index)")
	}

	var it bookingItem
	if err := attributevalue.UnmarshalMap(av, &it); err != nil {
		t.Fatalf("UnmarshalMap error: %v", err)
	}
	got := fromBookingItem(it)
	if got.ID != b.ID || got.State != b.State || !got.CreatedAt.Equal(now) || !got.ScheduledFor.IsZero() {
		t.Fatalf("unexpected booking: %+v", got)
	}
}

func TestNotificationItemKeepsRecipient(t *testing.T) {
	n := entities.Notification{
		ID:        "n1",
		Sequence:  3,
		Recipient: entities.GroupRecipient(entities.GroupAdmins),
		Kind:      entities.NotificationKindBroadcast,
		Summary:   "maintenance tonight",
	}

	it := toNotificationItem(n)
	if it.Recipient != "group:admins" || it.Seq != 3 {
		t.Fatalf("unexpected key: %s/%d", it.Recipient, it.Seq)
	}
	got := fromNotificationItem(it)
	if got.Recipient != n.Recipient || got.Kind != n.Kind {
		t.Fatalf("unexpected notification: %+v", got)
	}
}
