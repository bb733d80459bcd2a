package validator

import (
	"errors"
	"testing"

	"github.com/SAP-F-2025/quiz-session-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Difficulty string `json:"difficulty" validate:"omitempty,difficulty_level"`
	Selected   string `json:"selected_option" validate:"required,option_tag"`
}

func TestValidate_CustomTags(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&sampleRequest{Difficulty: "Hard", Selected: "Option4"}))
	assert.NoError(t, v.Validate(&sampleRequest{Selected: "Option1"}))

	err := v.Validate(&sampleRequest{Difficulty: "Impossible", Selected: "Option5"})
	require.Error(t, err)

	var errs ValidationErrors
	require.True(t, errors.As(err, &errs))
	require.Len(t, errs, 2)
	assert.Equal(t, "difficulty", errs[0].Field)
	assert.Equal(t, "must be Easy, Medium, or Hard", errs[0].Message)
	assert.Equal(t, "selected_option", errs[1].Field)
	assert.Equal(t, "option_tag", errs[1].Rule)
}

func TestQuestionValidator_ValidateQuestion(t *testing.T) {
	v := NewQuestionValidator()

	valid := &models.Question{
		Text:          "Capital of France?",
		Option1:       "Paris",
		Option2:       "Rome",
		Option3:       "Madrid",
		Option4:       "Berlin",
		CorrectOption: models.Option1,
		Difficulty:    models.DifficultyEasy,
	}
	assert.NoError(t, v.ValidateQuestion(valid))

	invalid := *valid
	invalid.Option3 = " "
	invalid.CorrectOption = "Option9"
	err := v.ValidateQuestion(&invalid)

	var errs ValidationErrors
	require.True(t, errors.As(err, &errs))
	require.Len(t, errs, 2)
	assert.Equal(t, "option3", errs[0].Field)
	assert.Equal(t, "correct_option", errs[1].Field)
}

func TestQuestionValidator_ValidateBatchEmpty(t *testing.T) {
	assert.Error(t, NewQuestionValidator().ValidateBatch(nil))
}
