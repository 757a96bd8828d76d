package blog

// error_response.go maps errors to the JSON error format returned to clients

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/penmark/blog-demo/app/internal/logger"
)

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {

	// The HTTP method used to make the request e.g. GET, POST, etc
	HTTPMethod string `json:"httpMethod"`

	// The URI that was requested
	RequestURI string `json:"requestUri"`

	// The HTTP status code returned
	StatusCode int `json:"statusCode"`

	// A standard short description corresponding to the HTTP status code
	StatusCodeText string `json:"statusCodeText"`

	// A sanitized description of what went wrong
	Message string `json:"message"`

	// A unique identifier for the HTTP request (chi request id)
	RequestID string `json:"requestId,omitempty"`

	// The DateTime corresponding to the error occurring
	ErrorDateTime string `json:"errorDateTime"`

	// The error code classifying the failure
	ErrorCode ErrorCode `json:"errorCode"`
}

// MapErrorToResponse maps blog.BlogError or generic errors to an ErrorResponse.
//
// The message is sanitized for internal errors - the full error is logged
// server-side by RespondWithErrorResponse.
func MapErrorToResponse(err error, r *http.Request) *ErrorResponse {
	requestID := middleware.GetReqID(r.Context())

	var blogErr *BlogError
	if !errors.As(err, &blogErr) {
		// not expected - log the unmapped error type and return an internal error response
		reqLogger := logger.ContextRequestLogger(r.Context())
		reqLogger.Error("BUG: unmapped error type in MapErrorToResponse",
			slog.String("error_type", fmt.Sprintf("%T", err)),
			slog.String("error", err.Error()),
			slog.String("request_id", requestID),
		)
		return newErrorResponse(r, requestID, http.StatusInternalServerError, ErrCodeInternalError, "An internal error occurred")
	}

	var statusCode int
	message := blogErr.Error()

	switch blogErr.Code() {
	case ErrCodeMalformedRequest, ErrCodeValidation:
		statusCode = http.StatusBadRequest
	case ErrCodeNotFound:
		statusCode = http.StatusNotFound
	case ErrCodeRateLimitExceeded:
		statusCode = http.StatusTooManyRequests
	case ErrCodeRequestTooLarge:
		statusCode = http.StatusRequestEntityTooLarge
	default:
		statusCode = http.StatusInternalServerError
		message = "An internal error occurred"
	}

	return newErrorResponse(r, requestID, statusCode, blogErr.Code(), message)
}

func newErrorResponse(r *http.Request, requestID string, statusCode int, code ErrorCode, message string) *ErrorResponse {
	return &ErrorResponse{
		HTTPMethod:     r.Method,
		RequestURI:     r.RequestURI,
		StatusCode:     statusCode,
		StatusCodeText: http.StatusText(statusCode),
		Message:        message,
		RequestID:      requestID,
		ErrorDateTime:  time.Now().UTC().Format(time.RFC3339),
		ErrorCode:      code,
	}
}

// RespondWithErrorResponse maps err to an ErrorResponse, logs the full error
// server-side and writes the JSON response.
func RespondWithErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	reqLogger := logger.ContextRequestLogger(r.Context())

	response := MapErrorToResponse(err, r)

	if response.StatusCode >= http.StatusInternalServerError {
		reqLogger.Error("request failed",
			slog.Int("status", response.StatusCode),
			slog.String("error", err.Error()),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(response.StatusCode)
	if encodeErr := json.NewEncoder(w).Encode(response); encodeErr != nil {
		reqLogger.Error("failed to encode error response", slog.String("error", encodeErr.Error()))
	}
}
