package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	eventSource  = "quiz-session-service"
	eventVersion = "1.0"
)

// EventType represents the kinds of session lifecycle events
type EventType string

const (
	EventSessionStarted   EventType = "session.started"
	EventAnswerSubmitted  EventType = "answer.submitted"
	EventSessionCompleted EventType = "session.completed"
)

// SessionEvent is the envelope for all published events
type SessionEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type SessionStartedData struct {
	SessionID         uint      `json:"session_id"`
	UserID            uint      `json:"user_id"`
	Title             string    `json:"title"`
	NumberOfQuestions int       `json:"number_of_questions"`
	TimeLimit         int       `json:"time_limit"` // minutes
	CategoryIDs       []uint    `json:"category_ids"`
	StartedAt         time.Time `json:"started_at"`
}

type AnswerSubmittedData struct {
	SessionID      uint      `json:"session_id"`
	UserID         uint      `json:"user_id"`
	QuestionID     uint      `json:"question_id"`
	SelectedOption string    `json:"selected_option"`
	IsCorrect      bool      `json:"is_correct"`
	TimeTaken      int       `json:"time_taken"`
	AnsweredAt     time.Time `json:"answered_at"`
}

type SessionCompletedData struct {
	SessionID        uint      `json:"session_id"`
	UserID           uint      `json:"user_id"`
	TotalScore       int       `json:"total_score"`
	MaxPossibleScore int       `json:"max_possible_score"`
	Reason           string    `json:"reason"` // "explicit", "exhausted" or "timeout"
	CompletedAt      time.Time `json:"completed_at"`
}

// Event factory functions

func NewSessionStartedEvent(data SessionStartedData) *SessionEvent {
	return newEvent(EventSessionStarted, data)
}

func NewAnswerSubmittedEvent(data AnswerSubmittedData) *SessionEvent {
	return newEvent(EventAnswerSubmitted, data)
}

func NewSessionCompletedEvent(data SessionCompletedData) *SessionEvent {
	return newEvent(EventSessionCompleted, data)
}

func newEvent(eventType EventType, data interface{}) *SessionEvent {
	return &SessionEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}
