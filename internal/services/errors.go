package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/quiz-session-service/internal/errors"
)

// ===== SESSION ENGINE ERRORS =====

var (
	ErrNotAuthenticated = errors.New("user not authenticated")

	// Ownership mismatches surface as ErrSessionNotFound as well.
	ErrSessionNotFound  = errors.New("quiz session not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrImageNotFound    = errors.New("question has no image")

	ErrEmptyPool        = errors.New("no questions for selected criteria")
	ErrAlreadyCompleted = errors.New("quiz session already completed")

	// ErrTransientStore wraps every persistence failure. Callers may retry.
	ErrTransientStore = errors.New("store temporarily unavailable")

	// ErrSequenceCorrupted means a frozen sequence points at a question that
	// no longer exists in the bank.
	ErrSequenceCorrupted = errors.New("frozen sequence references a missing question")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// ===== ERROR HELPERS =====

func NewValidationError(field, rule, message string, value interface{}) ValidationErrors {
	return ValidationErrors{*apperrors.NewValidationErrorWithRule(field, message, rule, value)}
}

func storeError(operation string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrTransientStore, operation, err)
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrImageNotFound)
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrNotAuthenticated)
}

func IsValidation(err error) bool {
	var validationErrs ValidationErrors
	var validationErr *ValidationError
	return errors.As(err, &validationErrs) || errors.As(err, &validationErr)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyCompleted)
}

func IsEmptyPool(err error) bool {
	return errors.Is(err, ErrEmptyPool)
}

func IsTransient(err error) bool {
	return errors.Is(err, ErrTransientStore)
}
