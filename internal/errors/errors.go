package errors

import "fmt"

// Error codes
const (
	ErrCodeCardNotFound       = "CARD_NOT_FOUND"
	ErrCodeSessionNotFound    = "SESSION_NOT_FOUND"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeInvalidTransition  = "INVALID_TRANSITION"
	ErrCodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeBadRequest         = "BAD_REQUEST"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "CARD_NOT_FOUND", "VALIDATION_ERROR")
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

// HasCode reports whether err is an AppError carrying the given code.
func HasCode(err error, code string) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}

// NewCardNotFoundError creates a CARD_NOT_FOUND error
func NewCardNotFoundError(deckID, cardID string) *AppError {
	return &AppError{
		Code:    ErrCodeCardNotFound,
		Message: fmt.Sprintf("card %s not tracked in deck %s", cardID, deckID),
		Status:  404,
	}
}

// NewSessionNotFoundError creates a SESSION_NOT_FOUND error
func NewSessionNotFoundError(sessionID string) *AppError {
	return &AppError{
		Code:    ErrCodeSessionNotFound,
		Message: fmt.Sprintf("practice session not found: %s", sessionID),
		Status:  404,
	}
}

// NewNotFoundError creates a generic NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewInvalidTransitionError creates an INVALID_TRANSITION error
func NewInvalidTransitionError(action string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("%s is not valid in the current session state", action),
		Status:  409,
	}
}

// NewStorageUnavailableError creates a STORAGE_UNAVAILABLE error
func NewStorageUnavailableError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeStorageUnavailable,
		Message: "persistence layer unavailable",
		Status:  503,
		Err:     err,
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
