package handlers

import (
	"fmt"
	"net/http"

	"github.com/SAP-F-2025/quiz-session-service/internal/services"
	"github.com/SAP-F-2025/quiz-session-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
	resultService  services.ResultService
	exportService  services.ExportService
}

func NewSessionHandler(
	sessionService services.SessionService,
	resultService services.ResultService,
	exportService services.ExportService,
	logger utils.Logger,
) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
		resultService:  resultService,
		exportService:  exportService,
	}
}

// CreateSession starts a new timed quiz session
// @Summary Create quiz session
// @Tags sessions
// @Accept json
// @Produce json
// @Param session body services.CreateSessionRequest true "Session settings"
// @Success 201 {object} services.SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	var req services.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	h.LogRequest(c, "Creating quiz session", "categories", req.CategoryIDs)

	session, err := h.sessionService.CreateSession(c.Request.Context(), identity, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogInfo(c, "Quiz session created", "session_id", session.ID)
	c.JSON(http.StatusCreated, session)
}

// ListSessions returns the caller's sessions, newest first
// @Summary List my quiz sessions
// @Tags sessions
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} services.SessionListResponse
// @Router /sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	list, err := h.sessionService.ListSessions(c.Request.Context(), identity,
		parseIntQuery(c, "limit", 0), parseIntQuery(c, "offset", 0))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// GetQuestion returns the question at index of the session's frozen sequence
// @Summary Fetch session question
// @Tags sessions
// @Produce json
// @Param id path uint true "Session ID"
// @Param index path int true "Zero based question index"
// @Success 200 {object} services.QuestionView
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /sessions/{id}/questions/{index} [get]
func (h *SessionHandler) GetQuestion(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}
	sessionID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}
	index, ok := h.parseIntParam(c, "index")
	if !ok {
		return
	}

	view, err := h.sessionService.FetchQuestion(c.Request.Context(), identity, sessionID, index)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// SubmitAnswer records or replaces the answer to one question
// @Summary Submit answer
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path uint true "Session ID"
// @Param answer body services.SubmitAnswerRequest true "Answer"
// @Success 200 {object} services.SubmitAnswerResult
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/answers [post]
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}
	sessionID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	result, err := h.sessionService.SubmitAnswer(c.Request.Context(), identity, sessionID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CompleteSession finishes the session; repeated calls return the same result
// @Summary Complete session
// @Tags sessions
// @Produce json
// @Param id path uint true "Session ID"
// @Success 200 {object} services.SessionResponse
// @Router /sessions/{id}/complete [post]
func (h *SessionHandler) CompleteSession(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}
	sessionID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	session, err := h.sessionService.CompleteSession(c.Request.Context(), identity, sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogInfo(c, "Quiz session completed", "session_id", session.ID, "score", session.TotalScore)
	c.JSON(http.StatusOK, session)
}

// GetTimeRemaining
// @Summary Remaining time of a session
// @Tags sessions
// @Produce json
// @Param id path uint true "Session ID"
// @Success 200 {object} services.TimeRemainingResponse
// @Router /sessions/{id}/time-remaining [get]
func (h *SessionHandler) GetTimeRemaining(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}
	sessionID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	remaining, err := h.sessionService.GetRemainingTime(c.Request.Context(), identity, sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, remaining)
}

// GetResult
// @Summary Session result with per question breakdown
// @Tags sessions
// @Produce json
// @Param id path uint true "Session ID"
// @Success 200 {object} services.SessionResult
// @Router /sessions/{id}/result [get]
func (h *SessionHandler) GetResult(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}
	sessionID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.resultService.GetResult(c.Request.Context(), identity, sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExportResult
// @Summary Download the session result as an xlsx workbook
// @Tags sessions
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path uint true "Session ID"
// @Router /sessions/{id}/result/export [get]
func (h *SessionHandler) ExportResult(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}
	sessionID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	buf, err := h.exportService.ExportResult(c.Request.Context(), identity, sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="quiz-session-%d.xlsx"`, sessionID))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
