package errors

import (
	"errors"
	"fmt"

	"github.com/repayflow/plan-engine/internal/domain"
)

// Domain errors
var (
	ErrOrganizationNotFound     = errors.New("organization fee configuration not found")
	ErrScheduleValidationFailed = errors.New("custom schedule failed validation")
	ErrScoringUnavailable       = errors.New("scoring collaborator unavailable")
	ErrInvalidDebtAmount        = errors.New("debt amount must be greater than zero")
	ErrEmptySchedule            = errors.New("proposed schedule has no installments")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeOrganizationNotFound = "ORGANIZATION_NOT_FOUND"
	ErrCodeValidationFailed     = "SCHEDULE_VALIDATION_FAILED"
	ErrCodeScoringUnavailable   = "SCORING_UNAVAILABLE"
	ErrCodeInvalidDebtAmount    = "INVALID_DEBT_AMOUNT"
	ErrCodeDatabaseError        = "DATABASE_ERROR"
	ErrCodeCacheError           = "CACHE_ERROR"
)

// ValidationError carries the full validator verdict so callers can relay
// the specific error and warning text, not just a generic failure.
type ValidationError struct {
	Result *domain.ScheduleValidationResult
}

func (e *ValidationError) Error() string {
	if e.Result == nil || len(e.Result.Errors) == 0 {
		return ErrScheduleValidationFailed.Error()
	}
	return fmt.Sprintf("%s: %s", ErrScheduleValidationFailed, e.Result.Errors[0])
}

func (e *ValidationError) Unwrap() error {
	return ErrScheduleValidationFailed
}

// Wrap common errors with business context

func WrapOrganizationNotFound(organizationID string) *BusinessError {
	return NewBusinessError(
		ErrCodeOrganizationNotFound,
		fmt.Sprintf("No fee configuration found for organization %s", organizationID),
		ErrOrganizationNotFound,
	)
}

func WrapScheduleValidationFailed(result *domain.ScheduleValidationResult) *ValidationError {
	return &ValidationError{Result: result}
}

func WrapScoringUnavailable(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeScoringUnavailable,
		"Scoring collaborator call failed",
		err,
	)
}

func WrapInvalidDebtAmount(amount string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidDebtAmount,
		fmt.Sprintf("Invalid debt amount: %s", amount),
		ErrInvalidDebtAmount,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}
