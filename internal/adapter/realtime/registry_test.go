package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bookinghub/internal/domain/entities"
	"bookinghub/internal/usecase/interfaces"
	mock_interfaces "bookinghub/internal/usecase/interfaces/mocks"

	"github.com/juju/clock/testclock"
	"go.uber.org/mock/gomock"
)

type fakeChannel struct {
	id   string
	fail error

	mu     sync.Mutex
	got    []entities.Notification
	closed bool
}

func (c *fakeChannel) ID() string { return c.id }

func (c *fakeChannel) Deliver(n entities.Notification) error {
	if c.fail != nil {
		return c.fail
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, n)
	return nil
}

func (c *fakeChannel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *fakeChannel) received() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.got)
}

func (c *fakeChannel) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

type countingObserver struct {
	mu     sync.Mutex
	opened int
	closed int
}

func (o *countingObserver) ConnectionOpened(entities.Role) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opened++
}

func (o *countingObserver) ConnectionClosed(entities.Role) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed++
}

func (o *countingObserver) counts() (int, int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.opened, o.closed
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func note(stream entities.Recipient, seq int64) entities.Notification {
	return entities.Notification{ID: "n", Sequence: seq, Recipient: stream, Summary: "s"}
}

func TestRegistry_AdmitAndBroadcast(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	verifier := mock_interfaces.NewMockIIdentityVerifier(ctrl)
	observer := &countingObserver{}
	r := NewRegistry(verifier, testclock.NewClock(time.Now()), observer)

	verifier.EXPECT().Verify("tok-admin").Return(entities.Identity{SubjectID: "a1", Role: entities.RoleAdmin}, nil).Times(2)
	verifier.EXPECT().Verify("tok-c1").Return(entities.Identity{SubjectID: "c1", Role: entities.RoleCustomer}, nil)

	phone := &fakeChannel{id: "phone"}
	laptop := &fakeChannel{id: "laptop"}
	cust := &fakeChannel{id: "cust"}
	for _, tc := range []struct {
		cred string
		ch   *fakeChannel
	}{{"tok-admin", phone}, {"tok-admin", laptop}, {"tok-c1", cust}} {
		if _, err := r.Admit(tc.cred, tc.ch); err != nil {
			t.Fatalf("Admit(%s) error: %v", tc.ch.id, err)
		}
	}

	if r.Connections() != 3 || r.Members("a1") != 2 || r.Members("group:admins") != 2 || r.Members("group:customers") != 1 {
		t.Fatalf("unexpected membership: conns=%d a1=%d admins=%d", r.Connections(), r.Members("a1"), r.Members("group:admins"))
	}

	if got := r.Broadcast("a1", note(entities.SubjectRecipient("a1", entities.RoleAdmin), 1)); got != 2 {
		t.Fatalf("subject broadcast delivered %d, want 2", got)
	}
	delivered, err := r.Push(context.Background(), note(entities.GroupRecipient(entities.GroupAdmins), 1))
	if err != nil || delivered != 2 {
		t.Fatalf("group push = %d, %v", delivered, err)
	}
	if cust.received() != 0 {
		t.Fatalf("customer must not get admin traffic")
	}
	if got := r.Broadcast("nobody", note(entities.SubjectRecipient("nobody", entities.RoleCustomer), 1)); got != 0 {
		t.Fatalf("broadcast to absent subject delivered %d", got)
	}
	if opened, _ := observer.counts(); opened != 3 {
		t.Fatalf("observer opened = %d", opened)
	}
}

func TestRegistry_Remove(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	verifier := mock_interfaces.NewMockIIdentityVerifier(ctrl)
	observer := &countingObserver{}
	r := NewRegistry(verifier, testclock.NewClock(time.Now()), observer)

	verifier.EXPECT().Verify("tok").Return(entities.Identity{SubjectID: "p1", Role: entities.RoleProvider}, nil)
	ch := &fakeChannel{id: "ch"}
	if _, err := r.Admit("tok", ch); err != nil {
		t.Fatalf("Admit() error: %v", err)
	}

	r.Remove(ch)
	r.Remove(ch)
	r.Remove(&fakeChannel{id: "never-admitted"})

	if r.Connections() != 0 || r.Members("p1") != 0 || r.Members("group:providers") != 0 {
		t.Fatalf("channel still registered")
	}
	if _, closed := observer.counts(); closed != 1 {
		t.Fatalf("observer closed = %d, want 1", closed)
	}
}

func TestRegistry_AdmitRejects(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	verifier := mock_interfaces.NewMockIIdentityVerifier(ctrl)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(verifier, testclock.NewClock(now), nil)

	verifier.EXPECT().Verify("bad").Return(entities.Identity{}, interfaces.ErrInvalidCredential)
	verifier.EXPECT().Verify("old").Return(entities.Identity{SubjectID: "c1", Role: entities.RoleCustomer, ExpiresAt: now.Add(-time.Second)}, nil)

	if _, err := r.Admit("bad", &fakeChannel{id: "a"}); !errors.Is(err, interfaces.ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
	if _, err := r.Admit("old", &fakeChannel{id: "b"}); !errors.Is(err, interfaces.ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential for expired credential, got %v", err)
	}
	if r.Connections() != 0 {
		t.Fatalf("rejected channels must not be registered")
	}
}

func TestRegistry_EvictsOnExpiry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	verifier := mock_interfaces.NewMockIIdentityVerifier(ctrl)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	clk := testclock.NewClock(now)
	observer := &countingObserver{}
	r := NewRegistry(verifier, clk, observer)

	verifier.EXPECT().Verify("short").Return(entities.Identity{SubjectID: "a1", Role: entities.RoleAdmin, ExpiresAt: now.Add(time.Minute)}, nil)
	verifier.EXPECT().Verify("long").Return(entities.Identity{SubjectID: "a2", Role: entities.RoleAdmin, ExpiresAt: now.Add(time.Hour)}, nil)

	short := &fakeChannel{id: "short"}
	long := &fakeChannel{id: "long"}
	if _, err := r.Admit("short", short); err != nil {
		t.Fatalf("Admit(short) error: %v", err)
	}
	if _, err := r.Admit("long", long); err != nil {
		t.Fatalf("Admit(long) error: %v", err)
	}

	clk.Advance(2 * time.Minute)
	waitFor(t, func() bool { return r.Connections() == 1 })

	if !short.isClosed() || long.isClosed() {
		t.Fatalf("only the expired channel is closed")
	}
	if r.Members("group:admins") != 1 || r.Members("a1") != 0 {
		t.Fatalf("expired channel still in group mappings")
	}
	waitFor(t, func() bool { _, closed := observer.counts(); return closed == 1 })
}

func TestRegistry_FailedDeliveryIsNotCounted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	verifier := mock_interfaces.NewMockIIdentityVerifier(ctrl)
	r := NewRegistry(verifier, nil, nil)

	verifier.EXPECT().Verify("tok").Return(entities.Identity{SubjectID: "c1", Role: entities.RoleCustomer}, nil).Times(2)
	if _, err := r.Admit("tok", &fakeChannel{id: "ok"}); err != nil {
		t.Fatalf("Admit() error: %v", err)
	}
	if _, err := r.Admit("tok", &fakeChannel{id: "gone", fail: ErrChannelClosed}); err != nil {
		t.Fatalf("Admit() error: %v", err)
	}

	if got := r.Broadcast("c1", note(entities.SubjectRecipient("c1", entities.RoleCustomer), 1)); got != 1 {
		t.Fatalf("delivered %d, want 1", got)
	}
}
