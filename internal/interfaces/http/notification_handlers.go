package http

import (
	"github.com/gin-gonic/gin"

	"github.com/uzima/reimbursement/internal/domain/entity"
)

// NotificationListResponse is the payload for GET /api/notifications
type NotificationListResponse struct {
	Notifications []*entity.Notification `json:"notifications"`
	UnreadCount   int                    `json:"unread_count"`
}

// ListNotifications handles GET /api/notifications
func (h *Handlers) ListNotifications(c *gin.Context) {
	notifications, unread, err := h.services.Notifications.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, NotificationListResponse{Notifications: notifications, UnreadCount: unread})
}

// MarkNotificationRead handles POST /api/notifications/:id/read
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.services.Notifications.MarkRead(c.Request.Context(), id, currentUser(c).ID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"read": true})
}

// MarkAllNotificationsRead handles POST /api/notifications/read-all
func (h *Handlers) MarkAllNotificationsRead(c *gin.Context) {
	count, err := h.services.Notifications.MarkAllRead(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"marked": count})
}
