package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/quiz-session-service/internal/events"
	"github.com/SAP-F-2025/quiz-session-service/internal/models"
	"github.com/SAP-F-2025/quiz-session-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-session-service/internal/validator"
)

const (
	completionExplicit  = "explicit"
	completionExhausted = "exhausted"
	completionTimeout   = "timeout"
)

// engine holds what the session, result and export services share: session
// loading with ownership checks, lazy deadline enforcement and finalization.
type engine struct {
	repo      repositories.Repository
	questions repositories.QuestionRepository
	sequencer *Sequencer
	publisher events.EventPublisher
	validator *validator.Validator
	logger    *slog.Logger
	svcLogger *ServiceLogger
	now       func() time.Time
}

// loadSession returns the session when the caller owns it. Sessions of other
// users are reported as not found unless allowAdmin is set and the caller is
// an admin.
func (e *engine) loadSession(ctx context.Context, identity Identity, sessionID uint, allowAdmin bool) (*models.QuizSession, error) {
	if !identity.Authenticated() {
		return nil, ErrNotAuthenticated
	}

	session, err := e.repo.Sessions().GetByID(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, storeError("get session", err)
	}

	if session.UserID != identity.UserID && !(allowAdmin && identity.IsAdmin) {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// enforceDeadline finalizes an open session whose time limit has passed and
// returns the up to date row.
func (e *engine) enforceDeadline(ctx context.Context, session *models.QuizSession) (*models.QuizSession, error) {
	if session.IsCompleted || !session.IsExpired(e.now()) {
		return session, nil
	}
	return e.finalize(ctx, session, completionTimeout)
}

// finalize completes the session at most once. Concurrent callers all get the
// completed row back; only the winner publishes the completion event.
func (e *engine) finalize(ctx context.Context, session *models.QuizSession, reason string) (*models.QuizSession, error) {
	if session.IsCompleted {
		return session, nil
	}

	won, err := e.repo.Sessions().Finalize(ctx, session.ID, e.now())
	if err != nil {
		return nil, storeError("finalize session", err)
	}

	completed, err := e.repo.Sessions().GetByID(ctx, session.ID)
	if err != nil {
		return nil, storeError("reload session", err)
	}

	if won {
		e.logger.Info("Quiz session completed",
			"session_id", completed.ID,
			"user_id", completed.UserID,
			"reason", reason,
			"score", completed.TotalScore,
			"max_score", completed.MaxPossibleScore)

		e.publish(ctx, events.NewSessionCompletedEvent(events.SessionCompletedData{
			SessionID:        completed.ID,
			UserID:           completed.UserID,
			Reason:           reason,
			TotalScore:       completed.TotalScore,
			MaxPossibleScore: completed.MaxPossibleScore,
			CompletedAt:      derefTime(completed.EndTime),
		}))
	}

	return completed, nil
}

// publish never fails the caller.
func (e *engine) publish(ctx context.Context, event *events.SessionEvent) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(ctx, event); err != nil {
		e.logger.Warn("Failed to publish session event",
			"event_type", event.Type,
			"event_id", event.ID,
			"error", err)
	}
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func toSessionResponse(session *models.QuizSession, hasSequence bool) *SessionResponse {
	categories := make([]uint, len(session.SelectedCategories))
	copy(categories, session.SelectedCategories)

	return &SessionResponse{
		ID:                 session.ID,
		UserID:             session.UserID,
		Title:              session.Title,
		Status:             session.Status(hasSequence),
		StartTime:          session.StartTime,
		EndTime:            session.EndTime,
		TimeLimit:          session.TimeLimit,
		NumberOfQuestions:  session.NumberOfQuestions,
		Difficulty:         session.Difficulty,
		SelectedCategories: categories,
		IsCompleted:        session.IsCompleted,
		TotalScore:         session.TotalScore,
		MaxPossibleScore:   session.MaxPossibleScore,
	}
}
