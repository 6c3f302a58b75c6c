package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/CMP-2025/course-activity-service/internal/repositories"
	"github.com/CMP-2025/course-activity-service/internal/services"
	"github.com/CMP-2025/course-activity-service/internal/validator"
)

// ErrorResponse is the JSON error envelope
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse wraps successful responses that carry a message
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// BaseHandler carries shared helpers for all handlers
type BaseHandler struct {
	logger *slog.Logger
}

func NewBaseHandler(logger *slog.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs a handler entry with the request id attached
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...interface{}) {
	args = append(args, "request_id", c.GetString("request_id"), "path", c.Request.URL.Path)
	h.logger.InfoContext(c.Request.Context(), msg, args...)
}

// parseIDParam parses a positive integer path parameter, writing the
// error response itself. Zero means the response was already written.
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) uint {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + name + " parameter",
			Details: raw,
		})
		return 0
	}
	return uint(id)
}

// actorFromContext returns the actor set by the auth middleware.
func (h *BaseHandler) actorFromContext(c *gin.Context) *services.Actor {
	v, exists := c.Get("actor")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return nil
	}
	actor, ok := v.(*services.Actor)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return nil
	}
	return actor
}

// handleServiceError maps service-layer errors onto HTTP status codes
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrs,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: err.Error()})

	case errors.Is(err, services.ErrAccessDenied),
		errors.Is(err, services.ErrAccountInactive):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: err.Error()})

	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrFacilitatorNotFound),
		errors.Is(err, services.ErrStudentNotFound),
		errors.Is(err, services.ErrCohortNotFound),
		errors.Is(err, services.ErrClassNotFound),
		errors.Is(err, services.ErrModuleNotFound),
		errors.Is(err, services.ErrModeNotFound),
		errors.Is(err, services.ErrOfferingNotFound),
		errors.Is(err, services.ErrActivityNotFound),
		errors.Is(err, services.ErrNotificationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error()})

	case errors.Is(err, services.ErrEmailTaken),
		repositories.IsConstraintViolation(err),
		repositories.IsReferentialIntegrity(err):
		c.JSON(http.StatusConflict, ErrorResponse{Message: err.Error()})

	case repositories.IsDanglingReference(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})

	default:
		h.logger.ErrorContext(c.Request.Context(), "Unhandled service error",
			"error", err,
			"path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
