package services

import (
	"time"

	"github.com/SAP-F-2025/quiz-session-service/internal/models"
)

// Identity is the caller as resolved by the transport layer. A zero UserID
// means the request is not authenticated.
type Identity struct {
	UserID  uint
	IsAdmin bool
}

func (i Identity) Authenticated() bool {
	return i.UserID != 0
}

// ===== REQUESTS =====

type CreateSessionRequest struct {
	Title             string                  `json:"title" validate:"required,max=200"`
	NumberOfQuestions int                     `json:"number_of_questions" validate:"required,min=1,max=100"`
	TimeLimit         int                     `json:"time_limit" validate:"required,min=1,max=180"`
	Difficulty        *models.DifficultyLevel `json:"difficulty" validate:"omitempty,difficulty_level"`
	CategoryIDs       []uint                  `json:"category_ids" validate:"required,min=1,dive,gt=0"`
}

type SubmitAnswerRequest struct {
	QuestionID     uint             `json:"question_id" validate:"required"`
	SelectedOption models.OptionTag `json:"selected_option" validate:"required,option_tag"`
	TimeTaken      int              `json:"time_taken" validate:"gte=0"`
}

type PracticeRequest struct {
	Mode       string `json:"mode" form:"mode" validate:"required,oneof=difficulty category"`
	Difficulty string `json:"difficulty" form:"difficulty" validate:"omitempty,difficulty_level"`
	CategoryID uint   `json:"category_id" form:"category_id"`
}

type CheckAnswerRequest struct {
	QuestionID     uint             `json:"question_id" validate:"required"`
	SelectedOption models.OptionTag `json:"selected_option" validate:"required,option_tag"`
}

// ===== RESPONSES =====

type SessionResponse struct {
	ID                 uint                    `json:"id"`
	UserID             uint                    `json:"user_id"`
	Title              string                  `json:"title"`
	Status             models.SessionStatus    `json:"status"`
	StartTime          time.Time               `json:"start_time"`
	EndTime            *time.Time              `json:"end_time,omitempty"`
	TimeLimit          int                     `json:"time_limit"`
	NumberOfQuestions  int                     `json:"number_of_questions"`
	Difficulty         *models.DifficultyLevel `json:"difficulty,omitempty"`
	SelectedCategories []uint                  `json:"selected_categories"`
	IsCompleted        bool                    `json:"is_completed"`
	TotalScore         int                     `json:"total_score"`
	MaxPossibleScore   int                     `json:"max_possible_score"`
}

type SessionListResponse struct {
	Sessions []*SessionResponse `json:"sessions"`
	Total    int64              `json:"total"`
}

type OptionView struct {
	Tag  models.OptionTag `json:"tag"`
	Text string           `json:"text"`
}

// QuestionContent never carries the correct option.
type QuestionContent struct {
	ID           uint                   `json:"id"`
	Text         string                 `json:"text"`
	Options      []OptionView           `json:"options"`
	Difficulty   models.DifficultyLevel `json:"difficulty"`
	CategoryID   uint                   `json:"category_id"`
	CategoryName string                 `json:"category_name"`
	ImageURL     *string                `json:"image_url,omitempty"`
}

// QuestionView is either a question with navigation state or, when Completed
// is true, a signal that the session is over.
type QuestionView struct {
	SessionID uint `json:"session_id"`
	Completed bool `json:"completed"`

	Question         *QuestionContent  `json:"question,omitempty"`
	SelectedOption   *models.OptionTag `json:"selected_option,omitempty"`
	RemainingSeconds int               `json:"remaining_seconds"`

	Index               int    `json:"index"`
	Total               int    `json:"total"`
	HasPrevious         bool   `json:"has_previous"`
	HasNext             bool   `json:"has_next"`
	QuestionIDs         []uint `json:"question_ids,omitempty"`
	AnsweredQuestionIDs []uint `json:"answered_question_ids,omitempty"`
}

type SubmitAnswerResult struct {
	Accepted  bool `json:"accepted"`
	IsCorrect bool `json:"is_correct"`
}

type TimeRemainingResponse struct {
	SessionID        uint `json:"session_id"`
	RemainingSeconds int  `json:"remaining_seconds"`
	IsCompleted      bool `json:"is_completed"`
}

type QuestionResult struct {
	QuestionID        uint                   `json:"question_id"`
	Text              string                 `json:"text"`
	CategoryName      string                 `json:"category_name"`
	Difficulty        models.DifficultyLevel `json:"difficulty"`
	Answered          bool                   `json:"answered"`
	SelectedOption    *models.OptionTag      `json:"selected_option,omitempty"`
	SelectedText      string                 `json:"selected_text,omitempty"`
	IsCorrect         bool                   `json:"is_correct"`
	CorrectOption     *models.OptionTag      `json:"correct_option,omitempty"`
	CorrectAnswerText string                 `json:"correct_answer_text,omitempty"`
	TimeTaken         int                    `json:"time_taken"`
}

type SessionResult struct {
	SessionID        uint              `json:"session_id"`
	Title            string            `json:"title"`
	IsCompleted      bool              `json:"is_completed"`
	TotalQuestions   int               `json:"total_questions"`
	Correct          int               `json:"correct"`
	Wrong            int               `json:"wrong"`
	Unanswered       int               `json:"unanswered"`
	Percentage       float64           `json:"percentage"`
	TotalScore       int               `json:"total_score"`
	MaxPossibleScore int               `json:"max_possible_score"`
	StartTime        time.Time         `json:"start_time"`
	EndTime          *time.Time        `json:"end_time,omitempty"`
	TimeTakenSeconds int               `json:"time_taken_seconds"`
	Breakdown        []*QuestionResult `json:"breakdown"`
}

type LeaderboardEntry struct {
	Rank             int        `json:"rank"`
	SessionID        uint       `json:"session_id"`
	Username         string     `json:"username"`
	Title            string     `json:"title"`
	Score            int        `json:"score"`
	MaxPossibleScore int        `json:"max_possible_score"`
	Percentage       float64    `json:"percentage"`
	CompletedAt      *time.Time `json:"completed_at"`
}

type CheckAnswerResult struct {
	QuestionID        uint             `json:"question_id"`
	IsCorrect         bool             `json:"is_correct"`
	CorrectOption     models.OptionTag `json:"correct_option"`
	CorrectAnswerText string           `json:"correct_answer_text"`
	Explanation       string           `json:"explanation"`
}

type QuestionImage struct {
	Data        []byte
	ContentType string
}
