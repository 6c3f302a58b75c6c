package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/CMP-2025/course-activity-service/internal/repositories"
	"github.com/CMP-2025/course-activity-service/internal/services"
)

// ActivityHandler manages weekly activity tracker endpoints. Create and
// update share one upsert path keyed on (allocation_id, week_number).
type ActivityHandler struct {
	BaseHandler
	activityService services.ActivityService
}

func NewActivityHandler(activityService services.ActivityService, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{
		BaseHandler:     NewBaseHandler(logger),
		activityService: activityService,
	}
}

func (h *ActivityHandler) UpsertActivity(c *gin.Context) {
	actor := h.actorFromContext(c)
	if actor == nil {
		return
	}

	var req services.UpsertActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	result, err := h.activityService.Upsert(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

func (h *ActivityHandler) UpdateActivity(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor := h.actorFromContext(c)
	if actor == nil {
		return
	}

	var req services.UpdateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	result, err := h.activityService.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ActivityHandler) GetActivity(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor := h.actorFromContext(c)
	if actor == nil {
		return
	}

	activity, err := h.activityService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, activity)
}

func (h *ActivityHandler) ListActivities(c *gin.Context) {
	actor := h.actorFromContext(c)
	if actor == nil {
		return
	}

	filters := repositories.ActivityFilters{
		Limit:  parseQueryInt(c, "limit", 20),
		Offset: parseQueryInt(c, "offset", 0),
	}
	if v := c.Query("allocation_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			aid := uint(id)
			filters.AllocationID = &aid
		}
	}
	if v := c.Query("week_number"); v != "" {
		if week, err := strconv.Atoi(v); err == nil {
			filters.WeekNumber = &week
		}
	}

	result, err := h.activityService.List(c.Request.Context(), actor, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ActivityHandler) DeleteActivity(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor := h.actorFromContext(c)
	if actor == nil {
		return
	}

	if err := h.activityService.Delete(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Activity tracker deleted"})
}
