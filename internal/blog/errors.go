package blog

// errors.go defines the error codes used by the blog API

import "fmt"

// BlogError represents a structured error from the blog package.
type BlogError struct {
	// code classifies the error for the HTTP error response
	code ErrorCode

	// message is a human-readable error message
	message string

	// wrapped is the optional underlying error
	wrapped error
}

func (e *BlogError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrapped)
	}
	return e.message
}

func (e *BlogError) Code() ErrorCode { return e.code }
func (e *BlogError) Unwrap() error   { return e.wrapped }

// ErrorCode is used in errors returned by the blog API.
type ErrorCode int

const (
	// ErrCodeMalformedRequest is used when JSON parsing or encoding fails
	ErrCodeMalformedRequest ErrorCode = iota + 1

	// ErrCodeValidation is used when a request is well formed but fails the
	// domain validation rules (missing required fields, empty update, etc)
	ErrCodeValidation

	// ErrCodeNotFound is used when the requested post does not exist
	ErrCodeNotFound

	// ErrCodeInternalError is used when an internal server error occurs
	ErrCodeInternalError

	// ErrCodeRateLimitExceeded is used when the rate limit is exceeded
	// - this is only used in the middleware
	ErrCodeRateLimitExceeded

	// ErrCodeRequestTooLarge is used when the request body is too large
	// - this is only used in the middleware
	ErrCodeRequestTooLarge
)

// NewMalformedRequestError creates an error for malformed requests.
func NewMalformedRequestError(msg string) error {
	return &BlogError{code: ErrCodeMalformedRequest, message: msg}
}

// WrapMalformedRequestError wraps an existing error as a malformed request error.
func WrapMalformedRequestError(err error, msg string) error {
	return &BlogError{code: ErrCodeMalformedRequest, message: msg, wrapped: err}
}

// NewValidationError creates a validation error for invalid input.
// Use this for missing required fields or an update that supplies no fields.
func NewValidationError(msg string) error {
	return &BlogError{code: ErrCodeValidation, message: msg}
}

// NewNotFoundError creates an error for a post id with no matching document.
func NewNotFoundError(msg string) error {
	return &BlogError{code: ErrCodeNotFound, message: msg}
}

// NewInternalError creates an internal error for unexpected failures.
func NewInternalError(msg string) error {
	return &BlogError{code: ErrCodeInternalError, message: msg}
}

// WrapInternalError wraps an existing error as an internal error.
// Use this for store-level failures that should surface as a 500.
func WrapInternalError(err error, msg string) error {
	return &BlogError{code: ErrCodeInternalError, message: msg, wrapped: err}
}

// NewRateLimitError creates a rate limit exceeded error.
func NewRateLimitError(msg string) error {
	return &BlogError{code: ErrCodeRateLimitExceeded, message: msg}
}

// NewRequestTooLargeError creates a request too large error.
func NewRequestTooLargeError(msg string) error {
	return &BlogError{code: ErrCodeRequestTooLarge, message: msg}
}
