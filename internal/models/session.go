package models

import (
	"time"

	"gorm.io/datatypes"
)

type SessionStatus string

const (
	SessionCreated    SessionStatus = "created"
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
)

// QuizSession is one timed run through a frozen question sequence.
// EndTime is set exactly when IsCompleted is true.
type QuizSession struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	UserID uint   `json:"user_id" gorm:"not null;index"`
	User   *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Title  string `json:"title" gorm:"not null;size:200"`

	StartTime time.Time  `json:"start_time" gorm:"not null"`
	EndTime   *time.Time `json:"end_time"`
	TimeLimit int        `json:"time_limit" gorm:"not null"` // minutes

	NumberOfQuestions  int                       `json:"number_of_questions" gorm:"not null"`
	Difficulty         *DifficultyLevel          `json:"difficulty,omitempty" gorm:"size:10"`
	SelectedCategories datatypes.JSONSlice[uint] `json:"selected_categories" gorm:"type:jsonb;not null"`

	IsCompleted      bool `json:"is_completed" gorm:"not null;default:false;index"`
	TotalScore       int  `json:"total_score" gorm:"not null;default:0"`
	MaxPossibleScore int  `json:"max_possible_score" gorm:"not null"`

	Sequence *QuestionSequence `json:"-" gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
	Answers  []UserAnswer      `json:"-" gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (QuizSession) TableName() string {
	return "quiz_sessions"
}

func (s *QuizSession) TimeLimitDuration() time.Duration {
	return time.Duration(s.TimeLimit) * time.Minute
}

// IsExpired reports whether more than the time limit has passed since StartTime.
func (s *QuizSession) IsExpired(now time.Time) bool {
	return now.Sub(s.StartTime) > s.TimeLimitDuration()
}

func (s *QuizSession) RemainingSeconds(now time.Time) int {
	remaining := s.TimeLimit*60 - int(now.Sub(s.StartTime).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s *QuizSession) Status(hasSequence bool) SessionStatus {
	switch {
	case s.IsCompleted:
		return SessionCompleted
	case hasSequence:
		return SessionInProgress
	default:
		return SessionCreated
	}
}

// QuestionSequence is the frozen question order of a session. It is written
// once and never updated.
type QuestionSequence struct {
	SessionID   uint                      `json:"session_id" gorm:"primaryKey;autoIncrement:false"`
	QuestionIDs datatypes.JSONSlice[uint] `json:"question_ids" gorm:"type:jsonb;not null"`
	CreatedAt   time.Time                 `json:"created_at"`
}

func (QuestionSequence) TableName() string {
	return "question_sequences"
}
