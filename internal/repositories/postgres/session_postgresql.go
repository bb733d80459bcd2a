package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/SAP-F-2025/quiz-session-service/internal/models"
	"github.com/SAP-F-2025/quiz-session-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionPostgreSQL struct {
	db *gorm.DB
}

func NewSessionPostgreSQL(db *gorm.DB) repositories.SessionRepository {
	return &SessionPostgreSQL{db: db}
}

func (s SessionPostgreSQL) Create(ctx context.Context, session *models.QuizSession) error {
	return s.db.WithContext(ctx).Create(session).Error
}

func (s SessionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.QuizSession, error) {
	var session models.QuizSession
	if err := s.db.WithContext(ctx).First(&session, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &session, nil
}

func (s SessionPostgreSQL) GetByIDForUpdate(ctx context.Context, id uint) (*models.QuizSession, error) {
	var session models.QuizSession
	if err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&session, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &session, nil
}

func (s SessionPostgreSQL) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.QuizSession, int64, error) {
	var sessions []*models.QuizSession
	var total int64

	query := s.db.WithContext(ctx).Model(&models.QuizSession{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Order("start_time DESC").Find(&sessions).Error; err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

// SetMaxPossibleScore leaves completed sessions untouched.
func (s SessionPostgreSQL) SetMaxPossibleScore(ctx context.Context, id uint, maxScore int) error {
	return s.db.WithContext(ctx).Model(&models.QuizSession{}).
		Where("id = ? AND is_completed = ?", id, false).
		Update("max_possible_score", maxScore).Error
}

// Finalize locks the session row before counting answers. A submit holding the
// same lock has committed by the time the count runs, so its answer is scored.
func (s SessionPostgreSQL) Finalize(ctx context.Context, id uint, endTime time.Time) (bool, error) {
	won := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session models.QuizSession
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "is_completed").
			First(&session, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if session.IsCompleted {
			return nil
		}

		var correct int64
		if err := tx.Model(&models.UserAnswer{}).
			Where("session_id = ? AND is_correct = ?", id, true).
			Count(&correct).Error; err != nil {
			return err
		}

		result := tx.Model(&models.QuizSession{}).
			Where("id = ? AND is_completed = ?", id, false).
			Updates(map[string]interface{}{
				"is_completed": true,
				"end_time":     endTime,
				"total_score":  int(correct),
			})
		if result.Error != nil {
			return result.Error
		}
		won = result.RowsAffected == 1
		return nil
	})
	if err != nil {
		return false, err
	}
	return won, nil
}

func (s SessionPostgreSQL) TopCompleted(ctx context.Context, limit int) ([]repositories.SessionSummary, error) {
	var summaries []repositories.SessionSummary
	err := s.db.WithContext(ctx).
		Table("quiz_sessions AS s").
		Select("s.id AS session_id, s.user_id, u.username, s.title, s.total_score, s.max_possible_score, s.end_time").
		Joins("LEFT JOIN users u ON u.id = s.user_id").
		Where("s.is_completed = ?", true).
		Order("s.total_score DESC, s.end_time DESC").
		Limit(limit).
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

type SequencePostgreSQL struct {
	db *gorm.DB
}

func NewSequencePostgreSQL(db *gorm.DB) repositories.SequenceRepository {
	return &SequencePostgreSQL{db: db}
}

func (q SequencePostgreSQL) Get(ctx context.Context, sessionID uint) ([]uint, error) {
	var sequence models.QuestionSequence
	if err := q.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&sequence).Error; err != nil {
		return nil, translateError(err)
	}
	return []uint(sequence.QuestionIDs), nil
}

// CreateIfAbsent relies on the primary key on session_id: the losing insert is
// dropped by ON CONFLICT DO NOTHING and both callers read back the winner.
func (q SequencePostgreSQL) CreateIfAbsent(ctx context.Context, sessionID uint, questionIDs []uint) ([]uint, error) {
	sequence := models.QuestionSequence{
		SessionID:   sessionID,
		QuestionIDs: questionIDs,
	}
	if err := q.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoNothing: true,
		}).
		Create(&sequence).Error; err != nil {
		return nil, err
	}
	return q.Get(ctx, sessionID)
}

type AnswerPostgreSQL struct {
	db *gorm.DB
}

func NewAnswerPostgreSQL(db *gorm.DB) repositories.AnswerRepository {
	return &AnswerPostgreSQL{db: db}
}

func (a AnswerPostgreSQL) Upsert(ctx context.Context, answer *models.UserAnswer) error {
	return a.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"selected_option", "is_correct", "answered_at", "time_taken"}),
	}).Create(answer).Error
}

func (a AnswerPostgreSQL) GetBySessionAndQuestion(ctx context.Context, sessionID, questionID uint) (*models.UserAnswer, error) {
	var answer models.UserAnswer
	if err := a.db.WithContext(ctx).
		Where("session_id = ? AND question_id = ?", sessionID, questionID).
		First(&answer).Error; err != nil {
		return nil, translateError(err)
	}
	return &answer, nil
}

func (a AnswerPostgreSQL) GetBySession(ctx context.Context, sessionID uint) ([]*models.UserAnswer, error) {
	var answers []*models.UserAnswer
	if err := a.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("answered_at").
		Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (a AnswerPostgreSQL) CountCorrect(ctx context.Context, sessionID uint) (int64, error) {
	var count int64
	err := a.db.WithContext(ctx).Model(&models.UserAnswer{}).
		Where("session_id = ? AND is_correct = ?", sessionID, true).
		Count(&count).Error
	return count, err
}
