package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"contract-workflow-api/internal/dto"
	"contract-workflow-api/internal/response"
	"contract-workflow-api/internal/service"
)

// NotificationHandler serves the caller's notification inbox
type NotificationHandler struct {
	notificationService service.NotificationService
}

// NewNotificationHandler creates a new instance of NotificationHandler
func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// ListNotifications godoc
// @Summary      List my notifications
// @Tags         notifications
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=[]domain.Notification}
// @Router       /notifications [get]
// @Security     BearerAuth
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	notifications, err := h.notificationService.ListNotifications(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, notifications)
}

// UnreadCount godoc
// @Summary      Count my unread notifications
// @Tags         notifications
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=dto.UnreadCountResponse}
// @Router       /notifications/unread-count [get]
// @Security     BearerAuth
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	count, err := h.notificationService.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, dto.UnreadCountResponse{Count: count})
}

// MarkRead godoc
// @Summary      Mark a notification read
// @Tags         notifications
// @Produce      json
// @Param        notificationId path string true "Notification ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=map[string]string}
// @Failure      404 {object} response.ErrorResponse
// @Router       /notifications/{notificationId}/read [put]
// @Security     BearerAuth
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	notificationID, ok := parseID(c, "notificationId", "notification")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), notificationID, userID); err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// MarkAllRead godoc
// @Summary      Mark all my notifications read
// @Tags         notifications
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=dto.MarkAllReadResponse}
// @Router       /notifications/read-all [put]
// @Security     BearerAuth
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	updated, err := h.notificationService.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, dto.MarkAllReadResponse{Updated: updated})
}
