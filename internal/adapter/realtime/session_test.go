package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bookinghub/internal/adapter/persistence/memory"
	"bookinghub/internal/domain/entities"
	"bookinghub/internal/usecase"
	"bookinghub/internal/usecase/interfaces"
	mock_interfaces "bookinghub/internal/usecase/interfaces/mocks"

	"github.com/gorilla/websocket"
	"go.uber.org/mock/gomock"
)

type sessionFixture struct {
	store    *memory.Store
	registry *Registry
	conn     *websocket.Conn
}

func startSession(t *testing.T, credential string, cursors map[string]int64) sessionFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	verifier := mock_interfaces.NewMockIIdentityVerifier(ctrl)
	verifier.EXPECT().Verify("tok-c1").Return(entities.Identity{SubjectID: "c1", Role: entities.RoleCustomer}, nil).AnyTimes()
	verifier.EXPECT().Verify("tok-bad").Return(entities.Identity{}, interfaces.ErrInvalidCredential).AnyTimes()

	store := memory.NewStore()
	registry := NewRegistry(verifier, nil, nil)
	notifications := usecase.NewNotificationUseCase(store, nil, 2)
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

	seed := make([]entities.NotificationDraft, 3)
	for i := range seed {
		seed[i] = entities.NotificationDraft{Recipient: entities.SubjectRecipient("c1", entities.RoleCustomer), Summary: "old"}
	}
	if _, err := store.Append(context.Background(), seed); err != nil {
		t.Fatalf("seed error: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		NewSession(conn).Serve(context.Background(), registry, notifications, credential, cursors, func(err error) string {
			return string(usecase.KindOf(err))
		})
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial() error: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return sessionFixture{store: store, registry: registry, conn: conn}
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f Frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	return f
}

func TestSession_BacklogThenLive(t *testing.T) {
	fx := startSession(t, "tok-c1", map[string]int64{"c1": 1})
	ctx := context.Background()

	for _, want := range []int64{2, 3} {
		f := readFrame(t, fx.conn)
		if f.Type != FrameNotification || f.Stream != "c1" || f.Notification == nil || f.Notification.Sequence != want {
			t.Fatalf("expected backlog seq %d, got %+v", want, f)
		}
	}
	done := readFrame(t, fx.conn)
	if done.Type != FrameBacklogComplete || done.Streams["c1"] != 3 {
		t.Fatalf("unexpected backlog marker: %+v", done)
	}
	if _, ok := done.Streams["group:customers"]; !ok {
		t.Fatalf("group stream missing from marker: %+v", done.Streams)
	}

	old, _ := fx.store.ListSince(ctx, "c1", 2, 1)
	fresh, err := fx.store.Append(ctx, []entities.NotificationDraft{
		{Recipient: entities.SubjectRecipient("c1", entities.RoleCustomer), Summary: "new 4"},
		{Recipient: entities.SubjectRecipient("c1", entities.RoleCustomer), Summary: "new 5"},
	})
	if err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	waitFor(t, func() bool { return fx.registry.Members("c1") == 1 })
	if n, _ := fx.registry.Push(ctx, fresh[0]); n != 1 {
		t.Fatalf("push delivered %d", n)
	}
	// already replayed, must not reach the client again
	fx.registry.Push(ctx, old[0])
	fx.registry.Push(ctx, fresh[1])

	for _, want := range []int64{4, 5} {
		f := readFrame(t, fx.conn)
		if f.Type != FrameNotification || f.Notification.Sequence != want {
			t.Fatalf("expected live seq %d, got %+v", want, f)
		}
	}

	if err := fx.conn.WriteJSON(Frame{Type: FrameAck, Stream: "c1", Sequence: 5}); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	ack := readFrame(t, fx.conn)
	if ack.Type != FrameAck || ack.Sequence != 5 {
		t.Fatalf("unexpected ack: %+v", ack)
	}
	if acked, _ := fx.store.LastAcked(ctx, "c1"); acked != 5 {
		t.Fatalf("stored cursor = %d", acked)
	}
}

func TestSession_ResumesFromStoredCursor(t *testing.T) {
	fx := startSession(t, "tok-c1", nil)

	for _, want := range []int64{1, 2, 3} {
		f := readFrame(t, fx.conn)
		if f.Type != FrameNotification || f.Notification.Sequence != want {
			t.Fatalf("expected backlog seq %d, got %+v", want, f)
		}
	}
	if f := readFrame(t, fx.conn); f.Type != FrameBacklogComplete {
		t.Fatalf("expected backlog marker, got %+v", f)
	}
}

func TestSession_CursorAlias(t *testing.T) {
	fx := startSession(t, "tok-c1", map[string]int64{CursorSelf: 2})

	f := readFrame(t, fx.conn)
	if f.Type != FrameNotification || f.Notification.Sequence != 3 {
		t.Fatalf("expected backlog seq 3, got %+v", f)
	}
	if f := readFrame(t, fx.conn); f.Type != FrameBacklogComplete || f.Streams["c1"] != 3 {
		t.Fatalf("expected backlog marker, got %+v", f)
	}
}

func TestSession_DeliverKeepsSequenceOrder(t *testing.T) {
	s := NewSession(nil)
	if err := s.release(map[string]int64{"c1": 3}); err != nil {
		t.Fatalf("release() error: %v", err)
	}
	c1 := entities.SubjectRecipient("c1", entities.RoleCustomer)

	for _, seq := range []int64{5, 7, 4, 5, 6} {
		if err := s.Deliver(note(c1, seq)); err != nil {
			t.Fatalf("Deliver(%d) error: %v", seq, err)
		}
	}

	for _, want := range []int64{4, 5, 6, 7} {
		select {
		case n := <-s.out:
			if n.Sequence != want {
				t.Fatalf("expected seq %d, got %d", want, n.Sequence)
			}
		default:
			t.Fatalf("expected seq %d to be queued", want)
		}
	}
	if len(s.out) != 0 || len(s.pending) != 0 {
		t.Fatalf("unexpected leftovers: queued=%d pending=%d", len(s.out), len(s.pending))
	}
}

func TestSession_FillsGapFromStore(t *testing.T) {
	fx := startSession(t, "tok-c1", nil)
	ctx := context.Background()

	for range 3 {
		readFrame(t, fx.conn)
	}
	if f := readFrame(t, fx.conn); f.Type != FrameBacklogComplete {
		t.Fatalf("expected backlog marker, got %+v", f)
	}

	fresh, err := fx.store.Append(ctx, []entities.NotificationDraft{
		{Recipient: entities.SubjectRecipient("c1", entities.RoleCustomer), Summary: "new 4"},
		{Recipient: entities.SubjectRecipient("c1", entities.RoleCustomer), Summary: "new 5"},
	})
	if err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	waitFor(t, func() bool { return fx.registry.Members("c1") == 1 })
	// seq 4 is never pushed live
	fx.registry.Push(ctx, fresh[1])

	for _, want := range []int64{4, 5} {
		f := readFrame(t, fx.conn)
		if f.Type != FrameNotification || f.Notification.Sequence != want {
			t.Fatalf("expected seq %d, got %+v", want, f)
		}
	}
}

func TestSession_RejectsBadCredential(t *testing.T) {
	fx := startSession(t, "tok-bad", nil)

	f := readFrame(t, fx.conn)
	if f.Type != FrameError || f.Error == nil || f.Error.Code != string(usecase.KindAuth) {
		t.Fatalf("expected AUTH error frame, got %+v", f)
	}
	if fx.registry.Connections() != 0 {
		t.Fatalf("rejected session must not be registered")
	}
}
