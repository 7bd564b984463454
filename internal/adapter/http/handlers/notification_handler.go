package handlers

import (
	"net/http"
	"strings"

	"bookinghub/internal/adapter/http/dto/request"
	"bookinghub/internal/adapter/http/dto/response"
	"bookinghub/internal/adapter/http/middleware"
	"bookinghub/internal/domain/entities"
	"bookinghub/internal/usecase"
	"bookinghub/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidBacklogQuery     = pkg.NewDomainErrorSimple("VALIDATION", "Invalid backlog query", http.StatusBadRequest)
	errInvalidAckPayload       = pkg.NewDomainErrorSimple("VALIDATION", "Invalid ack payload", http.StatusBadRequest)
	errInvalidBroadcastPayload = pkg.NewDomainErrorSimple("VALIDATION", "Invalid broadcast payload", http.StatusBadRequest)
)

// NotificationHandler serves the notification log to clients that poll
// instead of holding a realtime connection.
type NotificationHandler struct {
	usecase usecase.INotificationUseCase
}

func NewNotificationHandler(uc usecase.INotificationUseCase) *NotificationHandler {
	return &NotificationHandler{usecase: uc}
}

// ListNotifications godoc
// @Summary      Page through a notification stream
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        stream  query     string  false  "Stream (own subject stream when empty, or group:<name>)"
// @Param        since   query     int     false  "Return notifications after this sequence"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  response.BacklogResponse
// @Failure      403     {object}  pkg.HTTPError
// @Router       /notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	var query request.BacklogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		abortWith(c, errInvalidBacklogQuery)
		return
	}
	h.backlog(c, query.Stream, query)
}

// ListGroupNotifications godoc
// @Summary      Page through a role group stream
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        group  path      string  true   "admins, providers or customers"
// @Param        since  query     int     false  "Return notifications after this sequence"
// @Param        limit  query     int     false  "Page size"
// @Success      200    {object}  response.BacklogResponse
// @Failure      403    {object}  pkg.HTTPError
// @Router       /notifications/groups/{group} [get]
func (h *NotificationHandler) ListGroupNotifications(c *gin.Context) {
	var query request.BacklogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		abortWith(c, errInvalidBacklogQuery)
		return
	}
	h.backlog(c, entities.GroupStreamKey(c.Param("group")), query)
}

func (h *NotificationHandler) backlog(c *gin.Context, stream string, query request.BacklogQuery) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		abortWith(c, errUnauthenticated)
		return
	}

	items, err := h.usecase.Backlog(c.Request.Context(), actor, stream, query.Since, query.Limit)
	if err != nil {
		abortWith(c, mapUseCaseError(err))
		return
	}

	c.JSON(http.StatusOK, response.FromBacklog(streamName(actor, stream), query.Since, items))
}

// AckNotifications godoc
// @Summary      Acknowledge a stream up to a sequence
// @Tags         notifications
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      request.AckRequest  true  "Stream and sequence"
// @Success      200   {object}  response.AckResponse
// @Failure      400   {object}  pkg.HTTPError
// @Router       /notifications/ack [post]
func (h *NotificationHandler) AckNotifications(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		abortWith(c, errUnauthenticated)
		return
	}

	var payload request.AckRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		abortWith(c, errInvalidAckPayload)
		return
	}

	acked, err := h.usecase.Ack(c.Request.Context(), actor, payload.Stream, *payload.Sequence)
	if err != nil {
		abortWith(c, mapUseCaseError(err))
		return
	}

	c.JSON(http.StatusOK, response.AckResponse{Stream: streamName(actor, payload.Stream), Sequence: acked})
}

// Broadcast godoc
// @Summary      Send an administrative message to a role group
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      request.BroadcastRequest  true  "Group and summary"
// @Success      201   {array}   response.BroadcastResponse
// @Failure      400   {object}  pkg.HTTPError
// @Failure      403   {object}  pkg.HTTPError
// @Router       /admin/broadcasts [post]
func (h *NotificationHandler) Broadcast(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		abortWith(c, errUnauthenticated)
		return
	}

	var payload request.BroadcastRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		abortWith(c, errInvalidBroadcastPayload)
		return
	}

	notes, err := h.usecase.Broadcast(c.Request.Context(), actor, payload.Group, payload.Summary)
	if err != nil {
		abortWith(c, mapUseCaseError(err))
		return
	}

	out := make([]response.BroadcastResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, response.BroadcastResponse{Stream: n.Recipient.StreamKey(), Sequence: n.Sequence, ID: n.ID})
	}
	c.JSON(http.StatusCreated, out)
}

// streamName is the stream key a request resolved to, for echoing back.
func streamName(actor entities.Identity, stream string) string {
	stream = strings.TrimSpace(stream)
	if stream == "" {
		return actor.SubjectID
	}
	if stream == actor.SubjectID || entities.IsGroupStreamKey(stream) {
		return stream
	}
	return entities.GroupStreamKey(stream)
}
