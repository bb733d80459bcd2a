package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SAP-F-2025/quiz-session-service/internal/auth"
	"github.com/SAP-F-2025/quiz-session-service/internal/models"
	"github.com/SAP-F-2025/quiz-session-service/internal/repositories/memory"
	"github.com/SAP-F-2025/quiz-session-service/internal/services"
	"github.com/SAP-F-2025/quiz-session-service/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router    *gin.Engine
	store     *memory.Store
	science   *models.Category
	empty     *models.Category
	questions map[uint]*models.Question
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	srv := &testServer{store: memory.NewStore(), questions: make(map[uint]*models.Question)}

	srv.science = &models.Category{Name: "Science"}
	require.NoError(t, srv.store.Categories().Create(ctx, srv.science))
	srv.empty = &models.Category{Name: "Empty"}
	require.NoError(t, srv.store.Categories().Create(ctx, srv.empty))

	for i := 0; i < 3; i++ {
		q := &models.Question{
			CategoryID: srv.science.ID, Text: fmt.Sprintf("Q%d", i),
			Option1: "a", Option2: "b", Option3: "c", Option4: "d",
			CorrectOption: models.Option2, Difficulty: models.DifficultyEasy,
		}
		require.NoError(t, srv.store.Questions().Create(ctx, q))
		srv.questions[q.ID] = q
	}

	logger := utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	manager := services.NewServiceManager(services.Dependencies{
		Repo:   srv.store,
		Logger: logger.Slog(),
	})
	hm := NewHandlerManager(manager, auth.NewMiddleware(nil, srv.store.Users(), logger), logger)
	srv.router = hm.NewRouter(nil)
	return srv
}

func (s *testServer) do(t *testing.T, method, path, user string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set(auth.HeaderUserID, user)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *testServer) createSession(t *testing.T, user string, categoryID uint) services.SessionResponse {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/sessions", user, map[string]interface{}{
		"title":               "Lunch quiz",
		"number_of_questions": 3,
		"time_limit":          5,
		"category_ids":        []uint{categoryID},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[services.SessionResponse](t, w)
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)
	w := srv.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
	assert.NotEmpty(t, w.Header().Get(utils.RequestIDHeader))
}

func TestSessionFlow(t *testing.T) {
	srv := newTestServer(t)
	session := srv.createSession(t, "alice", srv.science.ID)
	base := fmt.Sprintf("/api/v1/sessions/%d", session.ID)

	w := srv.do(t, http.MethodGet, base+"/questions/0", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	view := decode[services.QuestionView](t, w)
	require.Len(t, view.QuestionIDs, 3)
	assert.NotContains(t, w.Body.String(), "correct_option")

	for i, id := range view.QuestionIDs {
		option := models.Option1
		if i == 0 {
			option = models.Option2
		}
		w = srv.do(t, http.MethodPost, base+"/answers", "alice", map[string]interface{}{
			"question_id": id, "selected_option": option, "time_taken": 3,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, i == 0, decode[services.SubmitAnswerResult](t, w).IsCorrect)
	}

	w = srv.do(t, http.MethodGet, base+"/time-remaining", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[services.TimeRemainingResponse](t, w).IsCompleted)

	w = srv.do(t, http.MethodPost, base+"/complete", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[services.SessionResponse](t, w).TotalScore)

	w = srv.do(t, http.MethodPost, base+"/complete", "alice", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = srv.do(t, http.MethodPost, base+"/answers", "alice", map[string]interface{}{
		"question_id": view.QuestionIDs[1], "selected_option": "Option2",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = srv.do(t, http.MethodGet, base+"/result", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	result := decode[services.SessionResult](t, w)
	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, 2, result.Wrong)
	assert.Equal(t, 33.33, result.Percentage)

	w = srv.do(t, http.MethodGet, base+"/result/export", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	w = srv.do(t, http.MethodGet, "/api/v1/sessions", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decode[services.SessionListResponse](t, w).Total)

	w = srv.do(t, http.MethodGet, "/api/v1/leaderboard", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	entries := decode[[]services.LeaderboardEntry](t, w)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].Username)
}

func TestSessionErrors(t *testing.T) {
	srv := newTestServer(t)
	session := srv.createSession(t, "alice", srv.science.ID)
	base := fmt.Sprintf("/api/v1/sessions/%d", session.ID)

	tests := []struct {
		name   string
		method string
		path   string
		user   string
		body   interface{}
		status int
	}{
		{"anonymous", http.MethodGet, base + "/questions/0", "", nil, http.StatusUnauthorized},
		{"other user", http.MethodGet, base + "/questions/0", "bob", nil, http.StatusNotFound},
		{"unknown session", http.MethodGet, "/api/v1/sessions/9999/questions/0", "alice", nil, http.StatusNotFound},
		{"bad session id", http.MethodGet, "/api/v1/sessions/abc/questions/0", "alice", nil, http.StatusBadRequest},
		{"bad index", http.MethodGet, base + "/questions/x", "alice", nil, http.StatusBadRequest},
		{"negative index", http.MethodGet, base + "/questions/-1", "alice", nil, http.StatusBadRequest},
		{"invalid create", http.MethodPost, "/api/v1/sessions", "alice", map[string]interface{}{"title": ""}, http.StatusBadRequest},
		{"bad option", http.MethodPost, base + "/answers", "alice", map[string]interface{}{"question_id": 1, "selected_option": "Option7"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.do(t, tt.method, tt.path, tt.user, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestEmptyPoolIsUnprocessable(t *testing.T) {
	srv := newTestServer(t)
	session := srv.createSession(t, "alice", srv.empty.ID)

	w := srv.do(t, http.MethodGet, fmt.Sprintf("/api/v1/sessions/%d/questions/0", session.ID), "alice", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "no questions for selected criteria")
}

func TestCatalogRoutes(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Science")
	assert.NotContains(t, w.Body.String(), "Empty")

	var questionID uint
	for id := range srv.questions {
		questionID = id
		break
	}
	w = srv.do(t, http.MethodGet, fmt.Sprintf("/api/v1/questions/%d/image", questionID), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPracticeRoutes(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, fmt.Sprintf("/api/v1/practice/question?mode=category&category_id=%d", srv.science.ID), "alice", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	question := decode[services.QuestionContent](t, w)
	assert.Contains(t, srv.questions, question.ID)

	w = srv.do(t, http.MethodPost, "/api/v1/practice/check", "alice", map[string]interface{}{
		"question_id": question.ID, "selected_option": "Option2",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[services.CheckAnswerResult](t, w).IsCorrect)

	w = srv.do(t, http.MethodGet, "/api/v1/practice/question?mode=difficulty&difficulty=Hard", "alice", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = srv.do(t, http.MethodGet, "/api/v1/practice/question?mode=category", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
