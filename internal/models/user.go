package models

import (
	"time"
)

type User struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	ExternalID string `json:"external_id" gorm:"uniqueIndex;not null;size:255"`
	Username   string `json:"username" gorm:"not null;size:100"`
	IsAdmin    bool   `json:"is_admin" gorm:"default:false"`

	LastLoginAt *time.Time `json:"last_login_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// AllModels lists every table in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Question{},
		&QuizSession{},
		&QuestionSequence{},
		&UserAnswer{},
	}
}
