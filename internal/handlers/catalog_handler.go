package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/quiz-session-service/internal/services"
	"github.com/SAP-F-2025/quiz-session-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the public, unauthenticated endpoints.
type CatalogHandler struct {
	BaseHandler
	catalogService services.CatalogService
	resultService  services.ResultService
}

func NewCatalogHandler(catalogService services.CatalogService, resultService services.ResultService, logger utils.Logger) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler:    NewBaseHandler(logger),
		catalogService: catalogService,
		resultService:  resultService,
	}
}

// ListCategories
// @Summary Categories that hold at least one question
// @Tags catalog
// @Produce json
// @Success 200 {array} repositories.CategoryCount
// @Router /categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetQuestionImage streams the image attached to a question
// @Summary Question image
// @Tags catalog
// @Param id path uint true "Question ID"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Router /questions/{id}/image [get]
func (h *CatalogHandler) GetQuestionImage(c *gin.Context) {
	questionID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	image, err := h.catalogService.GetQuestionImage(c.Request.Context(), questionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, image.ContentType, image.Data)
}

// GetLeaderboard
// @Summary Top completed sessions
// @Tags catalog
// @Produce json
// @Param limit query int false "Number of entries" default(5)
// @Success 200 {array} services.LeaderboardEntry
// @Router /leaderboard [get]
func (h *CatalogHandler) GetLeaderboard(c *gin.Context) {
	entries, err := h.resultService.TopScores(c.Request.Context(), parseIntQuery(c, "limit", 0))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// HealthCheck
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "quiz-session-service",
	})
}
