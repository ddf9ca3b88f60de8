package workflow

import (
	"errors"
	"fmt"
)

// ErrWorkflowNotActive rejects execution attempts on workflows that are not
// currently executable. No execution record exists for rejected attempts.
//nolint:staticcheck // Capitalized to match the message surfaced to API clients
var ErrWorkflowNotActive = errors.New("Automation workflow is not active")

// ValidationError rejects malformed input before any persistence call.
type ValidationError struct {
	Message string
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError checks if an error is a rejected-input error.
func IsValidationError(err error) bool {
	var validationErr *ValidationError

	return errors.As(err, &validationErr)
}

// ExecutionError carries the action error that terminated an execution
// together with the id of the failed execution record.
type ExecutionError struct {
	ExecutionID string
	Err         error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution %s failed: %v", e.ExecutionID, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
