package models

import "time"

// UserAnswer is the single live answer for a (session, question) pair.
type UserAnswer struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	SessionID      uint      `json:"session_id" gorm:"not null;uniqueIndex:idx_user_answer_session_question"`
	QuestionID     uint      `json:"question_id" gorm:"not null;uniqueIndex:idx_user_answer_session_question"`
	SelectedOption OptionTag `json:"selected_option" gorm:"not null;size:10"`
	IsCorrect      bool      `json:"is_correct" gorm:"not null;default:false"`
	AnsweredAt     time.Time `json:"answered_at" gorm:"not null"`
	TimeTaken      int       `json:"time_taken"` // seconds

	Question *Question `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
}

func (UserAnswer) TableName() string {
	return "user_answers"
}
