package validator

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/quiz-session-service/internal/models"
)

// QuestionValidator checks the invariants of a four option question
type QuestionValidator struct{}

func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion requires text, four non-empty options, one valid correct
// tag and a valid difficulty.
func (v *QuestionValidator) ValidateQuestion(question *models.Question) error {
	var errs ValidationErrors

	if strings.TrimSpace(question.Text) == "" {
		errs = append(errs, ValidationError{Field: "text", Message: "is required", Rule: "required"})
	}
	for i, option := range question.Options() {
		if strings.TrimSpace(option) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("option%d", i+1),
				Message: "is required",
				Rule:    "required",
			})
		}
	}
	if !question.CorrectOption.IsValid() {
		errs = append(errs, ValidationError{
			Field:   "correct_option",
			Message: "must be Option1, Option2, Option3, or Option4",
			Value:   question.CorrectOption,
			Rule:    "option_tag",
		})
	}
	if !question.Difficulty.IsValid() {
		errs = append(errs, ValidationError{
			Field:   "difficulty",
			Message: "must be Easy, Medium, or Hard",
			Value:   question.Difficulty,
			Rule:    "difficulty_level",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateBatch validates multiple questions
func (v *QuestionValidator) ValidateBatch(questions []*models.Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("question batch cannot be empty")
	}

	for i, question := range questions {
		if err := v.ValidateQuestion(question); err != nil {
			return fmt.Errorf("validation failed for question %d: %w", i+1, err)
		}
	}

	return nil
}
