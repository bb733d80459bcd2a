package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/quiz-session-service/internal/services"
	"github.com/SAP-F-2025/quiz-session-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type PracticeHandler struct {
	BaseHandler
	practiceService services.PracticeService
}

func NewPracticeHandler(practiceService services.PracticeService, logger utils.Logger) *PracticeHandler {
	return &PracticeHandler{
		BaseHandler:     NewBaseHandler(logger),
		practiceService: practiceService,
	}
}

// GetQuestion returns a random question for practice
// @Summary Random practice question
// @Tags practice
// @Produce json
// @Param mode query string true "difficulty or category"
// @Param difficulty query string false "Easy, Medium or Hard"
// @Param category_id query uint false "Category ID"
// @Success 200 {object} services.QuestionContent
// @Failure 422 {object} ErrorResponse
// @Router /practice/question [get]
func (h *PracticeHandler) GetQuestion(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	var req services.PracticeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid query parameters", err, err.Error())
		return
	}

	question, err := h.practiceService.RandomQuestion(c.Request.Context(), identity, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// CheckAnswer
// @Summary Check a practice answer
// @Tags practice
// @Accept json
// @Produce json
// @Param answer body services.CheckAnswerRequest true "Answer"
// @Success 200 {object} services.CheckAnswerResult
// @Router /practice/check [post]
func (h *PracticeHandler) CheckAnswer(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	var req services.CheckAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	result, err := h.practiceService.CheckAnswer(c.Request.Context(), identity, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
