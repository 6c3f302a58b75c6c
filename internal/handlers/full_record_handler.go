package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CMP-2025/course-activity-service/internal/services"
)

// FullRecordHandler creates a user plus optional offering and activity
// in one transaction. The route accepts either a manager token or the
// bootstrap token, so the actor may be absent.
type FullRecordHandler struct {
	BaseHandler
	fullRecordService services.FullRecordService
}

func NewFullRecordHandler(fullRecordService services.FullRecordService, logger *slog.Logger) *FullRecordHandler {
	return &FullRecordHandler{
		BaseHandler:       NewBaseHandler(logger),
		fullRecordService: fullRecordService,
	}
}

func (h *FullRecordHandler) CreateFullRecord(c *gin.Context) {
	var actor *services.Actor
	if v, exists := c.Get("actor"); exists {
		actor, _ = v.(*services.Actor)
	}

	var req services.CreateFullRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	result, err := h.fullRecordService.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
