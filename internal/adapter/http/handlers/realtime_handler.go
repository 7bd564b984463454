package handlers

import (
	"context"
	"log"
	"net/http"

	"bookinghub/internal/adapter/http/dto/request"
	"bookinghub/internal/adapter/realtime"
	"bookinghub/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// RealtimeHandler upgrades a request to a websocket session that replays the
// caller's missed notifications and then streams live ones.
type RealtimeHandler struct {
	ctx           context.Context
	registry      *realtime.Registry
	notifications realtime.Reconciler
	upgrader      websocket.Upgrader
}

// NewRealtimeHandler binds sessions to ctx so they end when the server shuts
// down.
func NewRealtimeHandler(ctx context.Context, registry *realtime.Registry, notifications realtime.Reconciler) *RealtimeHandler {
	return &RealtimeHandler{
		ctx:           ctx,
		registry:      registry,
		notifications: notifications,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Connect godoc
// @Summary      Open a realtime notification session
// @Description  Credential errors are reported as an error frame after the upgrade.
// @Tags         realtime
// @Param        token        query  string  false  "Bearer token when the Authorization header cannot be set"
// @Param        since        query  int     false  "Resume cursor of the subject stream"
// @Param        group_since  query  int     false  "Resume cursor of the role group stream"
// @Success      101
// @Router       /realtime [get]
func (h *RealtimeHandler) Connect(c *gin.Context) {
	var query request.RealtimeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		abortWith(c, mapUseCaseError(usecase.ErrInvalidSequence))
		return
	}
	credential := query.ResolveToken(c.GetHeader("Authorization"))

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[realtime][handler] upgrade failed remote=%s err=%v", c.ClientIP(), err)
		return
	}

	cursors := map[string]int64{}
	if query.Since != nil {
		cursors[realtime.CursorSelf] = *query.Since
	}
	if query.GroupSince != nil {
		cursors[realtime.CursorGroup] = *query.GroupSince
	}

	err = realtime.NewSession(conn).Serve(h.ctx, h.registry, h.notifications, credential, cursors, func(err error) string {
		return string(usecase.KindOf(err))
	})
	if err != nil {
		log.Printf("[realtime][handler] session ended remote=%s err=%v", c.ClientIP(), err)
	}
}
