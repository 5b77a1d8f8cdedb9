package shared

import (
	"errors"
	"net/http"
)

// Error kinds carried by AppError. The kind is the stable discriminant;
// handlers and the HTTP error handler switch on it, not on the message.
const (
	KindValidation   = "VALIDATION"
	KindPolicy       = "POLICY_REJECTION"
	KindAccessDenied = "ACCESS_DENIED"
	KindUnauthorized = "UNAUTHORIZED"
	KindRateLimited  = "RATE_LIMITED"
	KindDownstream   = "DOWNSTREAM_FAILURE"
)

// AppError is the tagged error type returned by services. StatusCode is the
// HTTP status the router responds with; Data is an optional typed payload
// (validation field lists, retry hints) included in the response envelope.
type AppError struct {
	StatusCode int
	Kind       string
	Message    string
	Data       interface{}
}

func (e *AppError) Error() string {
	return e.Kind + ": " + e.Message
}

func NewValidationError(message string, data interface{}) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Kind: KindValidation, Message: message, Data: data}
}

// NewPolicyError covers spam, honeypot and timing rejections. Messages are
// kept deliberately vague so callers are not coached on which rule fired.
func NewPolicyError(message string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Kind: KindPolicy, Message: message}
}

func NewAccessDeniedError() *AppError {
	return &AppError{StatusCode: http.StatusForbidden, Kind: KindAccessDenied, Message: "Access denied"}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{StatusCode: http.StatusUnauthorized, Kind: KindUnauthorized, Message: message}
}

func NewRateLimitedError(message string, retryAfterSeconds int) *AppError {
	var data interface{}
	if retryAfterSeconds > 0 {
		data = map[string]interface{}{"retry_after": retryAfterSeconds}
	}
	return &AppError{StatusCode: http.StatusTooManyRequests, Kind: KindRateLimited, Message: message, Data: data}
}

// NewDownstreamError wraps mail/LLM provider failures. The message must
// already be sanitized; provider detail belongs in server logs only.
func NewDownstreamError(message string, data interface{}) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Kind: KindDownstream, Message: message, Data: data}
}

func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
