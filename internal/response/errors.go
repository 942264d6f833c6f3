package response

import "fmt"

// Error codes returned in the error envelope
const (
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeForbidden     = "FORBIDDEN"
	ErrCodeBlocked       = "BLOCKED"
	ErrCodeInternal      = "INTERNAL_ERROR"
)

// AppError is the error type returned by the service layer
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAppError creates a new AppError
func NewAppError(code, message, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewNotFoundError creates a NOT_FOUND error
func NewNotFoundError(message, details string) *AppError {
	return NewAppError(ErrCodeNotFound, message, details)
}

// NewValidationError creates a VALIDATION_ERROR error
func NewValidationError(message, details string) *AppError {
	return NewAppError(ErrCodeValidation, message, details)
}

// NewForbiddenError creates a FORBIDDEN error
func NewForbiddenError(message, details string) *AppError {
	return NewAppError(ErrCodeForbidden, message, details)
}

// NewAlreadyExistsError creates an ALREADY_EXISTS error
func NewAlreadyExistsError(message, details string) *AppError {
	return NewAppError(ErrCodeAlreadyExists, message, details)
}

// NewUnauthorizedError creates an UNAUTHORIZED error
func NewUnauthorizedError(message, details string) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, details)
}
