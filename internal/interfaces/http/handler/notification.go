package handler

import (
	"github.com/agencia/backend/internal/domain/notification"
	"github.com/agencia/backend/internal/domain/shared"
	"github.com/agencia/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// NotificationHandler handles notification endpoints
type NotificationHandler struct {
	BaseHandler
	repo notification.Repository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(repo notification.Repository) *NotificationHandler {
	return &NotificationHandler{repo: repo}
}

// RegisterRoutes registers notification routes
func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	notifications := rg.Group("/notifications")
	{
		notifications.GET("", h.List)
		notifications.POST("/:id/read", h.MarkRead)
	}
}

// List returns the caller's notifications, newest first. Pass unread=true
// to filter to unread ones.
func (h *NotificationHandler) List(c *gin.Context) {
	actor := middleware.GetActor(c)
	if actor.IsZero() {
		h.HandleError(c, shared.ErrUnauthorized)
		return
	}

	unreadOnly := c.Query("unread") == "true"
	records, err := h.repo.ListByUser(c.Request.Context(), actor.UserID, unreadOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, records)
}

// MarkRead flags one of the caller's notifications as read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor := middleware.GetActor(c)
	if actor.IsZero() {
		h.HandleError(c, shared.ErrUnauthorized)
		return
	}

	notificationID, ok := parseIDParam(c)
	if !ok {
		return
	}

	records, err := h.repo.ListByUser(c.Request.Context(), actor.UserID, false)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	for i := range records {
		if records[i].ID == notificationID {
			records[i].MarkRead()
			if err := h.repo.Save(c.Request.Context(), &records[i]); err != nil {
				h.HandleError(c, err)
				return
			}
			h.Success(c, records[i])
			return
		}
	}
	h.HandleError(c, shared.ErrNotFound)
}
