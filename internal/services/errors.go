package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/evaluation-service/internal/errors"
	"github.com/SAP-F-2025/evaluation-service/internal/repositories"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrConflict         = errors.New("resource conflict")

	// Teacher specific errors
	ErrTeacherNotFound      = errors.New("teacher not found")
	ErrTeacherDuplicateName = errors.New("a teacher with this name already exists")
	ErrTeacherInactive      = errors.New("teacher is not accepting evaluations")

	// Question specific errors
	ErrQuestionNotFound  = errors.New("question not found")
	ErrNoActiveQuestions = errors.New("the evaluation form has no active questions")

	// Evaluation specific errors
	ErrEvaluationNotFound  = errors.New("evaluation not found")
	ErrDuplicateEvaluation = errors.New("student has already evaluated this teacher")

	// Report specific errors
	ErrNoEvaluations   = errors.New("teacher has no evaluations")
	ErrReportTooLarge  = errors.New("too many evaluations to build the report")
	ErrUnsupportedFile = errors.New("unsupported file format")
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

type PermissionError struct {
	UserID     string `json:"user_id"`
	ResourceID string `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s %s - %s",
		pe.UserID, pe.Action, pe.Resource, pe.ResourceID, pe.Reason)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a single-field validation failure
func NewValidationError(field, message string, value interface{}) ValidationErrors {
	return ValidationErrors{*apperrors.NewValidationError(field, message, value)}
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

func NewPermissionError(userID, resourceID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// mapNotFound replaces a repository not-found error with the domain sentinel
func mapNotFound(err error, sentinel error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return sentinel
	}
	return err
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrTeacherNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrEvaluationNotFound) ||
		errors.Is(err, ErrNoEvaluations) ||
		errors.Is(err, repositories.ErrNotFound)
}

// IsUnauthorized checks if error represents an "unauthorized" condition
func IsUnauthorized(err error) bool {
	var pe *PermissionError
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden) ||
		errors.As(err, &pe)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) || errors.Is(err, ErrUnsupportedFile) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre) ||
		errors.Is(err, ErrTeacherInactive) ||
		errors.Is(err, ErrNoActiveQuestions) ||
		errors.Is(err, ErrReportTooLarge)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrTeacherDuplicateName) ||
		errors.Is(err, ErrDuplicateEvaluation) ||
		errors.Is(err, repositories.ErrDuplicate)
}
