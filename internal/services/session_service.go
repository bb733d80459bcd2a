package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/SAP-F-2025/quiz-session-service/internal/events"
	"github.com/SAP-F-2025/quiz-session-service/internal/models"
	"github.com/SAP-F-2025/quiz-session-service/internal/repositories"
	"gorm.io/datatypes"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// SessionService drives a quiz session from creation to completion.
type SessionService interface {
	CreateSession(ctx context.Context, identity Identity, req *CreateSessionRequest) (*SessionResponse, error)
	ListSessions(ctx context.Context, identity Identity, limit, offset int) (*SessionListResponse, error)

	FetchQuestion(ctx context.Context, identity Identity, sessionID uint, index int) (*QuestionView, error)
	SubmitAnswer(ctx context.Context, identity Identity, sessionID uint, req *SubmitAnswerRequest) (*SubmitAnswerResult, error)
	CompleteSession(ctx context.Context, identity Identity, sessionID uint) (*SessionResponse, error)
	GetRemainingTime(ctx context.Context, identity Identity, sessionID uint) (*TimeRemainingResponse, error)
}

type sessionService struct {
	*engine
}

func NewSessionService(e *engine) SessionService {
	return &sessionService{engine: e}
}

// ===== SESSION CREATION =====

func (s *sessionService) CreateSession(ctx context.Context, identity Identity, req *CreateSessionRequest) (*SessionResponse, error) {
	log := s.svcLogger.WithOperation(ctx, "create_session", identity.UserID)

	if !identity.Authenticated() {
		log.LogResult(0, "quiz_session", ErrNotAuthenticated)
		return nil, ErrNotAuthenticated
	}

	if err := s.validator.Validate(req); err != nil {
		log.LogResult(0, "quiz_session", err)
		return nil, err
	}

	categoryIDs := uniqueIDs(req.CategoryIDs)
	for _, id := range categoryIDs {
		if _, err := s.repo.Categories().GetByID(ctx, id); err != nil {
			if repositories.IsNotFoundError(err) {
				verr := NewValidationError("category_ids", "exists", fmt.Sprintf("category %d does not exist", id), id)
				log.LogResult(0, "quiz_session", verr)
				return nil, verr
			}
			err = storeError("get category", err)
			log.LogResult(0, "quiz_session", err)
			return nil, err
		}
	}

	session := &models.QuizSession{
		UserID:             identity.UserID,
		Title:              req.Title,
		StartTime:          s.now(),
		TimeLimit:          req.TimeLimit,
		NumberOfQuestions:  req.NumberOfQuestions,
		Difficulty:         req.Difficulty,
		SelectedCategories: datatypes.JSONSlice[uint](categoryIDs),
		MaxPossibleScore:   req.NumberOfQuestions,
	}

	if err := s.repo.Sessions().Create(ctx, session); err != nil {
		err = storeError("create session", err)
		log.LogResult(0, "quiz_session", err)
		return nil, err
	}

	s.publish(ctx, events.NewSessionStartedEvent(events.SessionStartedData{
		SessionID:         session.ID,
		UserID:            session.UserID,
		Title:             session.Title,
		NumberOfQuestions: session.NumberOfQuestions,
		TimeLimit:         session.TimeLimit,
		CategoryIDs:       categoryIDs,
		StartedAt:         session.StartTime,
	}))

	log.LogResult(session.ID, "quiz_session", nil)
	return toSessionResponse(session, false), nil
}

func (s *sessionService) ListSessions(ctx context.Context, identity Identity, limit, offset int) (*SessionListResponse, error) {
	if !identity.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	sessions, total, err := s.repo.Sessions().ListByUser(ctx, identity.UserID, limit, offset)
	if err != nil {
		return nil, storeError("list sessions", err)
	}

	responses := make([]*SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		session, err = s.enforceDeadline(ctx, session)
		if err != nil {
			return nil, err
		}
		hasSequence := false
		if !session.IsCompleted {
			if _, hasSequence, err = s.sequencer.Lookup(ctx, session.ID); err != nil {
				return nil, err
			}
		}
		responses = append(responses, toSessionResponse(session, hasSequence))
	}

	return &SessionListResponse{Sessions: responses, Total: total}, nil
}

// ===== QUESTION NAVIGATION =====

func (s *sessionService) FetchQuestion(ctx context.Context, identity Identity, sessionID uint, index int) (*QuestionView, error) {
	session, err := s.loadSession(ctx, identity, sessionID, false)
	if err != nil {
		return nil, err
	}

	if index < 0 {
		return nil, NewValidationError("index", "min", "must be zero or greater", index)
	}

	if session, err = s.enforceDeadline(ctx, session); err != nil {
		return nil, err
	}
	if session.IsCompleted {
		return completedView(session), nil
	}

	sequence, err := s.sequencer.GetOrCreateSequence(ctx, session)
	if err != nil {
		return nil, err
	}
	if len(sequence) == 0 {
		s.logger.Warn("Empty question pool for session",
			"session_id", session.ID,
			"categories", []uint(session.SelectedCategories),
			"difficulty", session.Difficulty)
		return nil, ErrEmptyPool
	}

	if session.MaxPossibleScore != len(sequence) {
		if err := s.repo.Sessions().SetMaxPossibleScore(ctx, session.ID, len(sequence)); err != nil {
			return nil, storeError("set max possible score", err)
		}
		session.MaxPossibleScore = len(sequence)
	}

	if index >= len(sequence) {
		completed, err := s.finalize(ctx, session, completionExhausted)
		if err != nil {
			return nil, err
		}
		return completedView(completed), nil
	}

	questionID := sequence[index]
	question, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			s.logger.Error("Frozen sequence references a missing question",
				"session_id", session.ID,
				"question_id", questionID,
				"index", index)
			return nil, ErrSequenceCorrupted
		}
		return nil, storeError("get question", err)
	}

	answers, err := s.repo.Answers().GetBySession(ctx, session.ID)
	if err != nil {
		return nil, storeError("get answers", err)
	}

	view := &QuestionView{
		SessionID:        session.ID,
		Question:         toQuestionContent(question),
		RemainingSeconds: session.RemainingSeconds(s.now()),
		Index:            index,
		Total:            len(sequence),
		HasPrevious:      index > 0,
		HasNext:          index < len(sequence)-1,
		QuestionIDs:      append([]uint(nil), sequence...),
	}

	answered := make([]uint, 0, len(answers))
	for _, answer := range answers {
		answered = append(answered, answer.QuestionID)
		if answer.QuestionID == questionID {
			selected := answer.SelectedOption
			view.SelectedOption = &selected
		}
	}
	sort.Slice(answered, func(i, j int) bool { return answered[i] < answered[j] })
	view.AnsweredQuestionIDs = answered

	return view, nil
}

// ===== ANSWERS =====

func (s *sessionService) SubmitAnswer(ctx context.Context, identity Identity, sessionID uint, req *SubmitAnswerRequest) (*SubmitAnswerResult, error) {
	log := s.svcLogger.WithOperation(ctx, "submit_answer", identity.UserID)

	result, err := s.submitAnswer(ctx, identity, sessionID, req)
	log.LogResult(sessionID, "quiz_session", err)
	return result, err
}

func (s *sessionService) submitAnswer(ctx context.Context, identity Identity, sessionID uint, req *SubmitAnswerRequest) (*SubmitAnswerResult, error) {
	session, err := s.loadSession(ctx, identity, sessionID, false)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if session.IsCompleted {
		return nil, ErrAlreadyCompleted
	}
	if session.IsExpired(s.now()) {
		if _, err := s.finalize(ctx, session, completionTimeout); err != nil {
			return nil, err
		}
		return nil, ErrAlreadyCompleted
	}

	sequence, ok, err := s.sequencer.Lookup(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	if !ok || !containsID(sequence, req.QuestionID) {
		return nil, ErrQuestionNotFound
	}

	question, err := s.questions.GetByID(ctx, req.QuestionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, storeError("get question", err)
	}

	answer := &models.UserAnswer{
		SessionID:      session.ID,
		QuestionID:     question.ID,
		SelectedOption: req.SelectedOption,
		IsCorrect:      req.SelectedOption == question.CorrectOption,
		AnsweredAt:     s.now(),
		TimeTaken:      req.TimeTaken,
	}

	err = s.repo.Transaction(ctx, func(tx repositories.Repository) error {
		locked, err := tx.Sessions().GetByIDForUpdate(ctx, session.ID)
		if err != nil {
			return storeError("lock session", err)
		}
		if locked.IsCompleted {
			return ErrAlreadyCompleted
		}
		if err := tx.Answers().Upsert(ctx, answer); err != nil {
			return storeError("upsert answer", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyCompleted) || IsTransient(err) {
			return nil, err
		}
		return nil, storeError("submit answer transaction", err)
	}

	s.publish(ctx, events.NewAnswerSubmittedEvent(events.AnswerSubmittedData{
		SessionID:      answer.SessionID,
		UserID:         session.UserID,
		QuestionID:     answer.QuestionID,
		SelectedOption: string(answer.SelectedOption),
		IsCorrect:      answer.IsCorrect,
		TimeTaken:      answer.TimeTaken,
		AnsweredAt:     answer.AnsweredAt,
	}))

	return &SubmitAnswerResult{Accepted: true, IsCorrect: answer.IsCorrect}, nil
}

// ===== COMPLETION =====

func (s *sessionService) CompleteSession(ctx context.Context, identity Identity, sessionID uint) (*SessionResponse, error) {
	log := s.svcLogger.WithOperation(ctx, "complete_session", identity.UserID)

	session, err := s.loadSession(ctx, identity, sessionID, false)
	if err != nil {
		log.LogResult(sessionID, "quiz_session", err)
		return nil, err
	}

	reason := completionExplicit
	if session.IsExpired(s.now()) {
		reason = completionTimeout
	}

	completed, err := s.finalize(ctx, session, reason)
	log.LogResult(sessionID, "quiz_session", err)
	if err != nil {
		return nil, err
	}
	return toSessionResponse(completed, true), nil
}

func (s *sessionService) GetRemainingTime(ctx context.Context, identity Identity, sessionID uint) (*TimeRemainingResponse, error) {
	session, err := s.loadSession(ctx, identity, sessionID, false)
	if err != nil {
		return nil, err
	}

	if session, err = s.enforceDeadline(ctx, session); err != nil {
		return nil, err
	}

	remaining := 0
	if !session.IsCompleted {
		remaining = session.RemainingSeconds(s.now())
	}
	return &TimeRemainingResponse{
		SessionID:        session.ID,
		RemainingSeconds: remaining,
		IsCompleted:      session.IsCompleted,
	}, nil
}

// ===== HELPERS =====

func completedView(session *models.QuizSession) *QuestionView {
	return &QuestionView{
		SessionID: session.ID,
		Completed: true,
		Total:     session.MaxPossibleScore,
	}
}

func toQuestionContent(question *models.Question) *QuestionContent {
	options := make([]OptionView, 0, len(models.OptionTags))
	for _, tag := range models.OptionTags {
		options = append(options, OptionView{Tag: tag, Text: question.OptionText(tag)})
	}

	content := &QuestionContent{
		ID:           question.ID,
		Text:         question.Text,
		Options:      options,
		Difficulty:   question.Difficulty,
		CategoryID:   question.CategoryID,
		CategoryName: question.CategoryName(),
	}
	if question.HasImage() {
		url := QuestionImageURL(question.ID)
		content.ImageURL = &url
	}
	return content
}

// QuestionImageURL is the public route serving a question's image.
func QuestionImageURL(questionID uint) string {
	return fmt.Sprintf("/api/v1/questions/%d/image", questionID)
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	unique := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}

func containsID(ids []uint, id uint) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
