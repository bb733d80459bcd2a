package validator

import (
	"reflect"
	"strings"

	"github.com/SAP-F-2025/quiz-session-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with the service's custom tags
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		questionValidator: NewQuestionValidator(),
	}
}

// ValidateStruct validates struct tags only and returns the raw validator error
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate validates struct tags and converts failures to ValidationErrors
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// Question returns the question validator
func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("difficulty_level", validateDifficultyLevel)
	validate.RegisterValidation("option_tag", validateOptionTag)

	// Use json names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateDifficultyLevel(fl validator.FieldLevel) bool {
	return models.DifficultyLevel(fl.Field().String()).IsValid()
}

func validateOptionTag(fl validator.FieldLevel) bool {
	return models.OptionTag(fl.Field().String()).IsValid()
}
