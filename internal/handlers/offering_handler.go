package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/CMP-2025/course-activity-service/internal/models"
	"github.com/CMP-2025/course-activity-service/internal/repositories"
	"github.com/CMP-2025/course-activity-service/internal/services"
)

// OfferingHandler manages course offering endpoints, including the
// spreadsheet export of an offering's activity trackers.
type OfferingHandler struct {
	BaseHandler
	offeringService services.OfferingService
	exportService   services.ExportService
}

func NewOfferingHandler(offeringService services.OfferingService, exportService services.ExportService, logger *slog.Logger) *OfferingHandler {
	return &OfferingHandler{
		BaseHandler:     NewBaseHandler(logger),
		offeringService: offeringService,
		exportService:   exportService,
	}
}

func (h *OfferingHandler) CreateOffering(c *gin.Context) {
	actor := h.actorFromContext(c)
	if actor == nil {
		return
	}

	var req services.CreateOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	offering, err := h.offeringService.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, offering)
}

func (h *OfferingHandler) GetOffering(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor := h.actorFromContext(c)
	if actor == nil {
		return
	}

	offering, err := h.offeringService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, offering)
}

func (h *OfferingHandler) ListOfferings(c *gin.Context) {
	actor := h.actorFromContext(c)
	if actor == nil {
		return
	}

	filters := repositories.OfferingFilters{
		Limit:     parseQueryInt(c, "limit", 20),
		Offset:    parseQueryInt(c, "offset", 0),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if v := c.Query("trimester"); v != "" {
		tr := models.Trimester(v)
		filters.Trimester = &tr
	}
	if v := c.Query("intake_period"); v != "" {
		ip := models.IntakePeriod(v)
		filters.IntakePeriod = &ip
	}
	if v := c.Query("cohort_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			cid := uint(id)
			filters.CohortID = &cid
		}
	}
	if v := c.Query("facilitator_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			fid := uint(id)
			filters.FacilitatorID = &fid
		}
	}
	if v := c.Query("mode_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			mid := uint(id)
			filters.ModeID = &mid
		}
	}
	if v := c.Query("is_active"); v != "" {
		active := v == "true"
		filters.IsActive = &active
	}

	result, err := h.offeringService.List(c.Request.Context(), actor, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *OfferingHandler) UpdateOffering(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor := h.actorFromContext(c)
	if actor == nil {
		return
	}

	var req services.UpdateOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	offering, err := h.offeringService.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, offering)
}

func (h *OfferingHandler) DeleteOffering(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor := h.actorFromContext(c)
	if actor == nil {
		return
	}

	if err := h.offeringService.Delete(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Course offering deleted"})
}

// ExportActivities streams an xlsx workbook of the offering's trackers.
func (h *OfferingHandler) ExportActivities(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor := h.actorFromContext(c)
	if actor == nil {
		return
	}

	data, filename, err := h.exportService.ExportOfferingActivities(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
