package services

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/SAP-F-2025/quiz-session-service/internal/models"
	"github.com/SAP-F-2025/quiz-session-service/internal/repositories"
)

const (
	PracticeModeDifficulty = "difficulty"
	PracticeModeCategory   = "category"
)

// PracticeService serves single untimed questions outside of any session.
type PracticeService interface {
	RandomQuestion(ctx context.Context, identity Identity, req *PracticeRequest) (*QuestionContent, error)
	CheckAnswer(ctx context.Context, identity Identity, req *CheckAnswerRequest) (*CheckAnswerResult, error)
}

type practiceService struct {
	*engine
	pick func(n int) int
}

func NewPracticeService(e *engine) PracticeService {
	return &practiceService{engine: e, pick: rand.Intn}
}

func (s *practiceService) RandomQuestion(ctx context.Context, identity Identity, req *PracticeRequest) (*QuestionContent, error) {
	if !identity.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var filters repositories.QuestionFilters
	switch req.Mode {
	case PracticeModeDifficulty:
		if req.Difficulty == "" {
			return nil, NewValidationError("difficulty", "required", "is required in difficulty mode", req.Difficulty)
		}
		difficulty := models.DifficultyLevel(req.Difficulty)
		filters.Difficulty = &difficulty
	case PracticeModeCategory:
		if req.CategoryID == 0 {
			return nil, NewValidationError("category_id", "required", "is required in category mode", req.CategoryID)
		}
		filters.CategoryIDs = []uint{req.CategoryID}
	}

	pool, err := s.questions.ListIDs(ctx, filters)
	if err != nil {
		return nil, storeError("list question pool", err)
	}
	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}

	question, err := s.questions.GetByID(ctx, pool[s.pick(len(pool))])
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, storeError("get question", err)
	}
	return toQuestionContent(question), nil
}

func (s *practiceService) CheckAnswer(ctx context.Context, identity Identity, req *CheckAnswerRequest) (*CheckAnswerResult, error) {
	if !identity.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	question, err := s.questions.GetByID(ctx, req.QuestionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, storeError("get question", err)
	}

	result := &CheckAnswerResult{
		QuestionID:        question.ID,
		IsCorrect:         req.SelectedOption == question.CorrectOption,
		CorrectOption:     question.CorrectOption,
		CorrectAnswerText: question.OptionText(question.CorrectOption),
	}
	if result.IsCorrect {
		result.Explanation = "Correct! Well done!"
	} else {
		result.Explanation = fmt.Sprintf("Incorrect. The correct answer is %s.", result.CorrectAnswerText)
	}
	return result, nil
}
