package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CMP-2025/course-activity-service/internal/services"
)

// CatalogHandler exposes CRUD for cohorts, classes, modules and modes.
type CatalogHandler struct {
	BaseHandler
	catalogService services.CatalogService
}

func NewCatalogHandler(catalogService services.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler:    NewBaseHandler(logger),
		catalogService: catalogService,
	}
}

// ----- Cohorts -----

func (h *CatalogHandler) CreateCohort(c *gin.Context) {
	actor := h.actorFromContext(c)
	if actor == nil {
		return
	}

	var req services.CreateCohortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	cohort, err := h.catalogService.CreateCohort(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cohort)
}

func (h *CatalogHandler) GetCohort(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	cohort, err := h.catalogService.GetCohort(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cohort)
}

func (h *CatalogHandler) ListCohorts(c *gin.Context) {
	cohorts, err := h.catalogService.ListCohorts(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cohorts)
}

func (h *CatalogHandler) UpdateCohort(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor := h.actorFromContext(c)
	if actor == nil {
		return
	}

	var req services.UpdateCohortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	cohort, err := h.catalogService.UpdateCohort(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cohort)
}

func (h *CatalogHandler) DeleteCohort(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor := h.actorFromContext(c)
	if actor == nil {
		return
	}

	if err := h.catalogService.DeleteCohort(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Cohort deleted"})
}

// ----- Classes -----

func (h *CatalogHandler) CreateClass(c *gin.Context) {
	actor := h.actorFromContext(c)
	if actor == nil {
		return
	}

	var req services.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	class, err := h.catalogService.CreateClass(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, class)
}

func (h *CatalogHandler) GetClass(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	class, err := h.catalogService.GetClass(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, class)
}

func (h *CatalogHandler) ListClasses(c *gin.Context) {
	classes, err := h.catalogService.ListClasses(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, classes)
}

func (h *CatalogHandler) UpdateClass(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor := h.actorFromContext(c)
	if actor == nil {
		return
	}

	var req services.UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	class, err := h.catalogService.UpdateClass(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, class)
}

func (h *CatalogHandler) DeleteClass(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor := h.actorFromContext(c)
	if actor == nil {
		return
	}

	if err := h.catalogService.DeleteClass(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Class deleted"})
}

// ----- Modules -----

func (h *CatalogHandler) CreateModule(c *gin.Context) {
	actor := h.actorFromContext(c)
	if actor == nil {
		return
	}

	var req services.CreateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	module, err := h.catalogService.CreateModule(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, module)
}

func (h *CatalogHandler) GetModule(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	module, err := h.catalogService.GetModule(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, module)
}

func (h *CatalogHandler) ListModules(c *gin.Context) {
	modules, err := h.catalogService.ListModules(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, modules)
}

func (h *CatalogHandler) UpdateModule(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor := h.actorFromContext(c)
	if actor == nil {
		return
	}

	var req services.UpdateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	module, err := h.catalogService.UpdateModule(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, module)
}

func (h *CatalogHandler) DeleteModule(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor := h.actorFromContext(c)
	if actor == nil {
		return
	}

	if err := h.catalogService.DeleteModule(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Module deleted"})
}

// ----- Modes -----

func (h *CatalogHandler) CreateMode(c *gin.Context) {
	actor := h.actorFromContext(c)
	if actor == nil {
		return
	}

	var req services.CreateModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload", Details: err.Error()})
		return
	}

	mode, err := h.catalogService.CreateMode(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mode)
}

func (h *CatalogHandler) ListModes(c *gin.Context) {
	modes, err := h.catalogService.ListModes(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, modes)
}

func (h *CatalogHandler) DeleteMode(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	actor := h.actorFromContext(c)
	if actor == nil {
		return
	}

	if err := h.catalogService.DeleteMode(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Mode deleted"})
}
