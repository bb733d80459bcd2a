package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/SAP-F-2025/quiz-session-service/internal/auth"
	"github.com/SAP-F-2025/quiz-session-service/internal/services"
	"github.com/gin-gonic/gin"
)

// identity reads the caller set by the auth middleware and writes a 401 when
// there is none.
func (h *BaseHandler) identity(c *gin.Context) (services.Identity, bool) {
	value, exists := c.Get(auth.ContextUserID)
	userID, ok := value.(uint)
	if !exists || !ok || userID == 0 {
		h.RespondWithError(c, http.StatusUnauthorized, "User not authenticated", nil)
		return services.Identity{}, false
	}
	return services.Identity{UserID: userID, IsAdmin: c.GetBool(auth.ContextIsAdmin)}, true
}

func (h *BaseHandler) parseIDParam(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid "+param, nil, "must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

func (h *BaseHandler) parseIntParam(c *gin.Context, param string) (int, bool) {
	value, err := strconv.Atoi(c.Param(param))
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid "+param, nil, "must be an integer")
		return 0, false
	}
	return value, true
}

func parseIntQuery(c *gin.Context, param string, defaultValue int) int {
	valueStr := c.Query(param)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// handleServiceError maps service errors onto HTTP responses
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", err, validationErrors)
		return
	}

	switch {
	case services.IsUnauthorized(err):
		h.RespondWithError(c, http.StatusUnauthorized, "User not authenticated", err)
	case errors.Is(err, services.ErrSessionNotFound):
		h.RespondWithError(c, http.StatusNotFound, "Quiz session not found", err)
	case errors.Is(err, services.ErrQuestionNotFound):
		h.RespondWithError(c, http.StatusNotFound, "Question not found", err)
	case errors.Is(err, services.ErrImageNotFound):
		h.RespondWithError(c, http.StatusNotFound, "Image not found", err)
	case services.IsEmptyPool(err):
		h.RespondWithError(c, http.StatusUnprocessableEntity, services.ErrEmptyPool.Error(), err)
	case services.IsConflict(err):
		h.RespondWithError(c, http.StatusConflict, "Quiz session already completed", err)
	case services.IsTransient(err):
		h.RespondWithError(c, http.StatusServiceUnavailable, "Service temporarily unavailable", err)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
