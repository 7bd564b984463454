package entities

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestFindBookingTransition(t *testing.T) {
	tests := []struct {
		from, to BookingState
		ok       bool
		allowed  []Role
	}{
		{BookingStateRequested, BookingStateAccepted, true, []Role{RoleProvider}},
		{BookingStateAccepted, BookingStateCancelled, true, []Role{RoleCustomer, RoleProvider, RoleAdmin}},
		{BookingStateInProgress, BookingStateDisputed, true, []Role{RoleCustomer, RoleAdmin}},
		{BookingStateRequested, BookingStateCompleted, false, nil},
		{BookingStateCancelled, BookingStateAccepted, false, nil},
		{BookingStateCompleted, BookingStateDisputed, false, nil},
	}
	for _, tt := range tests {
		rule, ok := FindBookingTransition(tt.from, tt.to)
		if ok != tt.ok {
			t.Fatalf("%s -> %s: ok = %v", tt.from, tt.to, ok)
		}
		for _, r := range tt.allowed {
			if !rule.Allows(r) {
				t.Fatalf("%s -> %s must allow %s", tt.from, tt.to, r)
			}
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, rule := range BookingTransitions {
		if rule.From.IsTerminal() {
			t.Fatalf("terminal state %s has an outgoing edge to %s", rule.From, rule.To)
		}
	}
	for _, s := range []BookingState{BookingStateCompleted, BookingStateCancelled, BookingStateDisputed} {
		if !s.IsTerminal() {
			t.Fatalf("%s must be terminal", s)
		}
	}
}

func TestParse(t *testing.T) {
	if _, ok := ParseBookingState("ARCHIVED"); ok {
		t.Fatalf("unknown state parsed")
	}
	if r, ok := ParseRole(" Provider "); !ok || r != RoleProvider {
		t.Fatalf("ParseRole() = %q, %v", r, ok)
	}
	if _, ok := ParseRole("root"); ok {
		t.Fatalf("unknown role parsed")
	}
}

func TestIdentityExpired(t *testing.T) {
	now := time.Now()
	if (Identity{}).Expired(now) {
		t.Fatalf("identity without expiry must not expire")
	}
	if !(Identity{ExpiresAt: now}).Expired(now) {
		t.Fatalf("identity must expire at its deadline")
	}
}

func TestStreamKeys(t *testing.T) {
	g := GroupRecipient(GroupProviders)
	if g.StreamKey() != "group:providers" || g.Role != RoleProvider {
		t.Fatalf("unexpected group recipient: %+v", g)
	}
	if back := RecipientFromStreamKey("group:providers", RoleAdmin); back != g {
		t.Fatalf("RecipientFromStreamKey() = %+v", back)
	}
	if s := RecipientFromStreamKey("c1", RoleCustomer); s.IsGroup() || s.StreamKey() != "c1" {
		t.Fatalf("unexpected subject recipient: %+v", s)
	}
}

func TestBookingJSON_ScheduledForAlwaysPresent(t *testing.T) {
	b := Booking{ID: "b1", CustomerID: "c1", ServiceID: "s1", State: BookingStateRequested}

	raw, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"scheduled_for":"0001-01-01T00:00:00Z"`) {
		t.Fatalf("unscheduled booking should carry the zero time, got %s", raw)
	}

	b.ScheduledFor = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	raw, err = json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"scheduled_for":"2026-03-01T09:30:00Z"`) {
		t.Fatalf("scheduled_for = %s", raw)
	}
}
