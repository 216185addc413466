package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	// Authentication errors
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"

	// Authorization errors
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeAccountBlocked  = "ACCOUNT_BLOCKED"
	ErrCodeFeatureDisabled = "FEATURE_DISABLED"

	// Validation errors
	ErrCodeInvalidInput = "INVALID_INPUT"

	// Resource errors
	ErrCodeNotFound = "NOT_FOUND"
	ErrCodeConflict = "CONFLICT"

	// Business logic errors
	ErrCodeInvalidState = "INVALID_STATE"

	// Service errors
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
)

// Error kinds. Service errors wrap exactly one of these so handlers can map
// them to a status without knowing every sentinel.
var (
	Unauthenticated = stderrors.New("unauthenticated")
	Forbidden       = stderrors.New("forbidden")
	NotFound        = stderrors.New("not found")
	Conflict        = stderrors.New("conflict")
	InvalidState    = stderrors.New("invalid state")
	Validation      = stderrors.New("validation failed")
	FeatureDisabled = stderrors.New("feature disabled")
)

// Refinements that keep their parent kind under errors.Is but get their own code.
var (
	Blocked            error = &kindError{kind: Forbidden, msg: "account blocked"}
	InvalidCredentials error = &kindError{kind: Unauthenticated, msg: "invalid credentials"}
)

// kindError carries a caller-facing message and unwraps to its kind.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// New returns an error with the given message that matches kind under errors.Is.
func New(kind error, message string) error {
	return &kindError{kind: kind, msg: message}
}

// APIError represents a standardized API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.JSON(statusCode, err)
}

// Respond maps a service error to its HTTP response. Errors that wrap no kind
// are treated as internal failures and their text is not exposed.
func Respond(c *gin.Context, err error) {
	status, apiErr := Classify(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	RespondWithError(c, status, apiErr)
}

// Classify returns the HTTP status and response body for err.
func Classify(err error) (int, *APIError) {
	switch {
	case stderrors.Is(err, InvalidCredentials):
		return http.StatusUnauthorized, NewAPIError(ErrCodeInvalidCredentials, err.Error())
	case stderrors.Is(err, Unauthenticated):
		return http.StatusUnauthorized, NewAPIError(ErrCodeUnauthorized, err.Error())
	case stderrors.Is(err, Blocked):
		return http.StatusForbidden, NewAPIError(ErrCodeAccountBlocked, err.Error())
	case stderrors.Is(err, FeatureDisabled):
		return http.StatusForbidden, NewAPIError(ErrCodeFeatureDisabled, err.Error())
	case stderrors.Is(err, Forbidden):
		return http.StatusForbidden, NewAPIError(ErrCodeForbidden, err.Error())
	case stderrors.Is(err, NotFound):
		return http.StatusNotFound, NewAPIError(ErrCodeNotFound, err.Error())
	case stderrors.Is(err, Conflict):
		return http.StatusConflict, NewAPIError(ErrCodeConflict, err.Error())
	case stderrors.Is(err, InvalidState):
		return http.StatusBadRequest, NewAPIError(ErrCodeInvalidState, err.Error())
	case stderrors.Is(err, Validation):
		return http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, err.Error())
	default:
		return http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, "Internal server error")
	}
}

// Helper functions for common error responses

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeUnauthorized, message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, message))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *gin.Context, message string) {
	if message == "" {
		message = "Service temporarily unavailable"
	}
	RespondWithError(c, http.StatusServiceUnavailable, NewAPIError(ErrCodeServiceUnavailable, message))
}

// TooManyRequests sends a 429 response
func TooManyRequests(c *gin.Context) {
	RespondWithError(c, http.StatusTooManyRequests, NewAPIError(ErrCodeTooManyRequests, "Too many requests"))
}
