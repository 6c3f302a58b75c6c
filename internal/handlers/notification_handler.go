package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CMP-2025/course-activity-service/internal/models"
	"github.com/CMP-2025/course-activity-service/internal/repositories"
	"github.com/CMP-2025/course-activity-service/internal/services"
)

type NotificationHandler struct {
	BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         NewBaseHandler(logger),
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	actor := h.actorFromContext(c)
	if actor == nil {
		return
	}

	var req services.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	notification, err := h.notificationService.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, notification)
}

// ListMyNotifications returns the authenticated user's notifications.
func (h *NotificationHandler) ListMyNotifications(c *gin.Context) {
	actor := h.actorFromContext(c)
	if actor == nil {
		return
	}

	filters := repositories.NotificationFilters{
		Limit:  parseQueryInt(c, "limit", 20),
		Offset: parseQueryInt(c, "offset", 0),
	}
	if v := c.Query("is_read"); v != "" {
		read := v == "true"
		filters.IsRead = &read
	}
	if v := c.Query("type"); v != "" {
		nt := models.NotificationType(v)
		filters.Type = &nt
	}

	result, err := h.notificationService.ListMine(c.Request.Context(), actor, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *NotificationHandler) MarkNotificationRead(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor := h.actorFromContext(c)
	if actor == nil {
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Notification marked as read"})
}
