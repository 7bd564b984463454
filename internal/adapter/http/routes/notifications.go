package routes

import (
	"bookinghub/internal/adapter/http/handlers"
	"bookinghub/internal/adapter/http/middleware"
	"bookinghub/internal/domain/entities"

	"github.com/gin-gonic/gin"
)

const (
	PathNotifications = "/notifications"
	PathAdmin         = "/admin"
	PathRealtime      = "/realtime"
)

func addNotificationRoutes(rg *gin.RouterGroup, h *handlers.NotificationHandler, auth gin.HandlerFunc) {
	notifications := rg.Group(PathNotifications, auth)
	{
		notifications.GET("", h.ListNotifications)
		notifications.GET("/groups/:group", h.ListGroupNotifications)
		notifications.POST("/ack", h.AckNotifications)
	}

	admin := rg.Group(PathAdmin, auth, middleware.RequireRole(entities.RoleAdmin))
	{
		admin.POST("/broadcasts", h.Broadcast)
	}
}

// The realtime route authenticates inside the session so credential errors
// reach the client as an error frame.
func addRealtimeRoutes(rg *gin.RouterGroup, h *handlers.RealtimeHandler) {
	rg.GET(PathRealtime, h.Connect)
}
