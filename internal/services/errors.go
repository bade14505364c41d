package services

import (
	"errors"
	"fmt"

	apperrors "github.com/prepnexus/learning-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")

	// Generation / evaluation errors
	ErrTopicRequired            = errors.New("topic is required")
	ErrQuizGenerationFailed     = errors.New("failed to generate a valid quiz")
	ErrAssignmentGenFailed      = errors.New("failed to generate a valid assignment")
	ErrEvaluationFailed         = errors.New("failed to evaluate submission")
	ErrResumeDataRequired       = errors.New("resume data required for mixed quiz")
	ErrResumeTextRequired       = errors.New("resume text is empty")
	ErrAssignmentNotFound       = errors.New("assignment not found")
	ErrSubmissionContentMissing = errors.New("submission must include code text or a repository link")

	// Interview session errors
	ErrSessionInvalid       = errors.New("invalid or expired session")
	ErrSessionComplete      = errors.New("all questions have already been answered")
	ErrAnswerRequired       = errors.New("answer text is required")
	ErrInterviewStartFailed = errors.New("failed to start interview session")
	ErrAnswerScoringFailed  = errors.New("failed to score interview answer")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAssignmentNotFound) ||
		errors.Is(err, ErrSessionInvalid)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrTopicRequired) ||
		errors.Is(err, ErrAnswerRequired) ||
		errors.Is(err, ErrResumeTextRequired) ||
		errors.Is(err, ErrSubmissionContentMissing) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	if errors.Is(err, ErrSessionComplete) || errors.Is(err, ErrResumeDataRequired) {
		return true
	}
	var bre *BusinessRuleError
	return errors.As(err, &bre)
}

// IsGenerationFailure checks if error came from the AI generation or
// evaluation path.
func IsGenerationFailure(err error) bool {
	return errors.Is(err, ErrQuizGenerationFailed) ||
		errors.Is(err, ErrAssignmentGenFailed) ||
		errors.Is(err, ErrEvaluationFailed) ||
		errors.Is(err, ErrInterviewStartFailed) ||
		errors.Is(err, ErrAnswerScoringFailed)
}
