package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/quiz-session-service/internal/models"
)

// SessionRepository interface for quiz session operations
type SessionRepository interface {
	Create(ctx context.Context, session *models.QuizSession) error
	GetByID(ctx context.Context, id uint) (*models.QuizSession, error)
	// GetByIDForUpdate locks the session row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id uint) (*models.QuizSession, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.QuizSession, int64, error)

	SetMaxPossibleScore(ctx context.Context, id uint, maxScore int) error

	// Finalize marks the session completed with endTime and a score recounted
	// from correct answers. It only applies to sessions not yet completed and
	// reports whether this call performed the transition.
	Finalize(ctx context.Context, id uint, endTime time.Time) (bool, error)

	TopCompleted(ctx context.Context, limit int) ([]SessionSummary, error)
}

// SequenceRepository stores the frozen question order of each session.
type SequenceRepository interface {
	// Get returns ErrNotFound when no sequence was frozen yet.
	Get(ctx context.Context, sessionID uint) ([]uint, error)

	// CreateIfAbsent stores questionIDs only when the session has no sequence
	// and returns the sequence that is stored afterwards, which is the one of
	// whichever writer got there first.
	CreateIfAbsent(ctx context.Context, sessionID uint, questionIDs []uint) ([]uint, error)
}

// AnswerRepository interface for answer ledger operations
type AnswerRepository interface {
	// Upsert inserts or overwrites the answer for (SessionID, QuestionID).
	Upsert(ctx context.Context, answer *models.UserAnswer) error
	GetBySessionAndQuestion(ctx context.Context, sessionID, questionID uint) (*models.UserAnswer, error)
	GetBySession(ctx context.Context, sessionID uint) ([]*models.UserAnswer, error)
	CountCorrect(ctx context.Context, sessionID uint) (int64, error)
}
