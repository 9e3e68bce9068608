package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListNotifications returns the actor's notifications: direct ones plus, for
// staff, the broadcasts addressed to their role.
func (h *Handler) ListNotifications(c *gin.Context) {
	userID, role := actor(c)
	notifications, err := h.Service.Notifications(userID, role)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead flips the read flag on one of the actor's
// notifications.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	userID, _ := actor(c)
	if err := h.Service.MarkNotificationRead(id, userID); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}
