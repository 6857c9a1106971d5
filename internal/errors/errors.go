package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodePoolExhausted    = "POOL_EXHAUSTED"
	ErrCodeInvalidState     = "INVALID_STATE"
	ErrCodeInvalidAnswer    = "INVALID_ANSWER"
	ErrCodeEmptyQuestionSet = "EMPTY_QUESTION_SET"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "INVALID_STATE")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError carrying the same code, so callers can compare
// against the zero-message values below with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is checks.
var (
	ErrPoolExhausted    = &AppError{Code: ErrCodePoolExhausted}
	ErrInvalidState     = &AppError{Code: ErrCodeInvalidState}
	ErrInvalidAnswer    = &AppError{Code: ErrCodeInvalidAnswer}
	ErrEmptyQuestionSet = &AppError{Code: ErrCodeEmptyQuestionSet}
)

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// NewPoolExhaustedError reports that a track's question pool is too small to
// start an assessment. It is not retryable without user action.
func NewPoolExhaustedError(track string, available, required int) *AppError {
	return &AppError{
		Code:    ErrCodePoolExhausted,
		Message: fmt.Sprintf("assessment unavailable for %s: %d questions available, %d required", track, available, required),
		Status:  409,
	}
}

// NewInvalidStateError reports an operation attempted in a state that forbids it.
func NewInvalidStateError(operation, state string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidState,
		Message: fmt.Sprintf("cannot %s while session is %s", operation, state),
		Status:  409,
	}
}

// NewInvalidAnswerError reports an option that is not listed on the question.
func NewInvalidAnswerError(option string, position int) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidAnswer,
		Message: fmt.Sprintf("option %q is not a choice for question %d", option, position+1),
		Status:  400,
	}
}

// NewEmptyQuestionSetError is returned when scoring is asked to analyze nothing.
func NewEmptyQuestionSetError() *AppError {
	return &AppError{
		Code:    ErrCodeEmptyQuestionSet,
		Message: "cannot analyze an empty question set",
		Status:  500,
	}
}

// CodeOf returns the code of the first AppError in err's chain, or "" if none.
func CodeOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code string) bool {
	return CodeOf(err) == code
}

// AsAppError returns err as an AppError, wrapping unknown errors as internal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(err)
}
