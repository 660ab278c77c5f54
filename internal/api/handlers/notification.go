package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/shopfront-api/internal/services"
	"github.com/princeprakhar/shopfront-api/internal/utils"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	list, err := h.notificationService.List(currentActor(c).UserID)
	if err != nil {
		respondError(c, "Failed to fetch notifications", err)
		return
	}
	utils.SendSuccess(c, "Notifications retrieved successfully", list)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := parseID(c, "id", "notification ID")
	if !ok {
		return
	}

	notification, err := h.notificationService.MarkRead(currentActor(c).UserID, id)
	if err != nil {
		respondError(c, "Failed to update notification", err)
		return
	}
	utils.SendSuccess(c, "Notification marked as read", notification)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	updated, err := h.notificationService.MarkAllRead(currentActor(c).UserID)
	if err != nil {
		respondError(c, "Failed to update notifications", err)
		return
	}
	utils.SendSuccess(c, "All notifications marked as read", gin.H{"updated": updated})
}

// CreateTest accepts an empty body, which creates a single notification.
func (h *NotificationHandler) CreateTest(c *gin.Context) {
	var req services.TestNotificationsRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	created, err := h.notificationService.CreateTest(currentActor(c).UserID, req)
	if err != nil {
		respondError(c, "Failed to create notifications", err)
		return
	}
	utils.SendList(c, "Test notifications created", created, len(created))
}
