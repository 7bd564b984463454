package handlers

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bookinghub/internal/adapter/persistence/memory"
	"bookinghub/internal/adapter/realtime"
	"bookinghub/internal/domain/entities"
	"bookinghub/internal/usecase"
	"bookinghub/internal/usecase/interfaces"
	mock_interfaces "bookinghub/internal/usecase/interfaces/mocks"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/mock/gomock"
)

func TestRealtimeHandler_Connect(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ctrl := gomock.NewController(t)
	verifier := mock_interfaces.NewMockIIdentityVerifier(ctrl)
	verifier.EXPECT().Verify("tok-p1").Return(providerP1, nil).AnyTimes()
	verifier.EXPECT().Verify("").Return(entities.Identity{}, interfaces.ErrInvalidCredential).AnyTimes()

	store := memory.NewStore()
	_, err := store.Append(context.Background(), []entities.NotificationDraft{
		{Recipient: entities.GroupRecipient(entities.GroupProviders), Kind: entities.NotificationKindBroadcast, Summary: "one"},
		{Recipient: entities.GroupRecipient(entities.GroupProviders), Kind: entities.NotificationKindBroadcast, Summary: "two"},
	})
	if err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h := NewRealtimeHandler(ctx, realtime.NewRegistry(verifier, nil, nil), usecase.NewNotificationUseCase(store, nil, 0))

	r := gin.New()
	r.GET("/v1/realtime", h.Connect)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	base := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/realtime"

	read := func(t *testing.T, conn *websocket.Conn) realtime.Frame {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var f realtime.Frame
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("ReadJSON() error: %v", err)
		}
		return f
	}

	t.Run("group cursor from query", func(t *testing.T) {
		conn, _, err := websocket.DefaultDialer.Dial(base+"?token=tok-p1&group_since=1", nil)
		if err != nil {
			t.Fatalf("Dial() error: %v", err)
		}
		defer conn.Close()

		f := read(t, conn)
		if f.Type != realtime.FrameNotification || f.Stream != "group:providers" || f.Notification.Sequence != 2 {
			t.Fatalf("expected group seq 2, got %+v", f)
		}
		if f := read(t, conn); f.Type != realtime.FrameBacklogComplete || f.Streams["group:providers"] != 2 {
			t.Fatalf("expected backlog marker, got %+v", f)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		conn, _, err := websocket.DefaultDialer.Dial(base, nil)
		if err != nil {
			t.Fatalf("Dial() error: %v", err)
		}
		defer conn.Close()

		f := read(t, conn)
		if f.Type != realtime.FrameError || f.Error == nil || f.Error.Code != string(usecase.KindAuth) {
			t.Fatalf("expected AUTH error frame, got %+v", f)
		}
	})
}
