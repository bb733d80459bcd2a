package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/SAP-F-2025/quiz-session-service/internal/models"
)

// ErrNotFound is returned by every repository when a lookup resolves to nothing.
var ErrNotFound = errors.New("record not found")

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Repository groups the stores used by the session engine and can run a
// function inside a single transaction.
type Repository interface {
	Questions() QuestionRepository
	Categories() CategoryRepository
	Sessions() SessionRepository
	Sequences() SequenceRepository
	Answers() AnswerRepository
	Users() UserRepository

	Transaction(ctx context.Context, fn func(tx Repository) error) error
}

// ===== SHARED FILTER STRUCTS =====

type QuestionFilters struct {
	CategoryIDs []uint                  `json:"category_ids"`
	Difficulty  *models.DifficultyLevel `json:"difficulty"`
}

// ===== SHARED STATISTICS STRUCTS =====

type CategoryCount struct {
	CategoryID    uint   `json:"category_id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	QuestionCount int64  `json:"question_count"`
}

type SessionSummary struct {
	SessionID        uint       `json:"session_id"`
	UserID           uint       `json:"user_id"`
	Username         string     `json:"username"`
	Title            string     `json:"title"`
	TotalScore       int        `json:"total_score"`
	MaxPossibleScore int        `json:"max_possible_score"`
	EndTime          *time.Time `json:"end_time"`
}
