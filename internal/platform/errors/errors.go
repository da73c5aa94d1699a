// Package errors provides unified error handling for the credit intelligence engine.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique error code.
type ErrorCode string

const (
	// Validation errors (3xxx)
	ErrCodeInvalidInput     ErrorCode = "VAL_3001"
	ErrCodeMissingParameter ErrorCode = "VAL_3002"
	ErrCodeInvalidFormat    ErrorCode = "VAL_3003"
	ErrCodeOutOfRange       ErrorCode = "VAL_3004"

	// Resource errors (4xxx)
	ErrCodeNotFound ErrorCode = "RES_4001"
	ErrCodeConflict ErrorCode = "RES_4003"

	// Service errors (5xxx)
	ErrCodeInternal             ErrorCode = "SVC_5001"
	ErrCodeUpstreamUnreachable  ErrorCode = "SVC_5004"
	ErrCodeUpstreamTimeout      ErrorCode = "SVC_5005"
	ErrCodeRateLimitExceeded    ErrorCode = "SVC_5006"

	// Cryptographic errors (6xxx)
	ErrCodeDecryptionFailed ErrorCode = "CRYPTO_6002"
	ErrCodeKeyUnavailable   ErrorCode = "CRYPTO_6005"
)

// ServiceError represents a structured error with code, message, and HTTP status.
type ServiceError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	HTTPStatus int                    `json:"-"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Err        error                  `json:"-"`
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// WithDetails adds additional details to the error.
func (e *ServiceError) WithDetails(key string, value interface{}) *ServiceError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new ServiceError.
func New(code ErrorCode, message string, httpStatus int) *ServiceError {
	return &ServiceError{Code: code, Message: message, HTTPStatus: httpStatus}
}

// Wrap wraps an existing error with a ServiceError.
func Wrap(code ErrorCode, message string, httpStatus int, err error) *ServiceError {
	return &ServiceError{Code: code, Message: message, HTTPStatus: httpStatus, Err: err}
}

// Validation errors

// Validation builds a ValidationError carrying an optional list of field errors.
func Validation(reason string, fieldErrors map[string]interface{}) *ServiceError {
	e := New(ErrCodeInvalidInput, reason, http.StatusBadRequest)
	for k, v := range fieldErrors {
		e.WithDetails(k, v)
	}
	return e
}

func MissingParameter(param string) *ServiceError {
	return New(ErrCodeMissingParameter, "missing required parameter", http.StatusBadRequest).
		WithDetails("parameter", param)
}

func InvalidFormat(field, expected string) *ServiceError {
	return New(ErrCodeInvalidFormat, "invalid format", http.StatusBadRequest).
		WithDetails("field", field).
		WithDetails("expected", expected)
}

func OutOfRange(field string, min, max interface{}) *ServiceError {
	return New(ErrCodeOutOfRange, "value out of range", http.StatusBadRequest).
		WithDetails("field", field).WithDetails("min", min).WithDetails("max", max)
}

// Resource errors

func NotFound(resource, id string) *ServiceError {
	return New(ErrCodeNotFound, "resource not found", http.StatusNotFound).
		WithDetails("resource", resource).WithDetails("id", id)
}

// Conflict builds a ConflictError — e.g. revoking a non-ACTIVE consent or a txn_id mismatch.
func Conflict(message string) *ServiceError {
	return New(ErrCodeConflict, message, http.StatusConflict)
}

// RateLimited builds a RateLimited error carrying the remaining lockout window.
func RateLimited(remainingSeconds int64) *ServiceError {
	return New(ErrCodeRateLimitExceeded, "too many failed attempts", http.StatusTooManyRequests).
		WithDetails("remaining_lockout_seconds", remainingSeconds)
}

// Service errors

func Internal(message string, err error) *ServiceError {
	return Wrap(ErrCodeInternal, message, http.StatusInternalServerError, err)
}

// UpstreamUnreachable marks a soft failure the caller degrades from.
func UpstreamUnreachable(service string, err error) *ServiceError {
	return Wrap(ErrCodeUpstreamUnreachable, "upstream unreachable", http.StatusBadGateway, err).
		WithDetails("service", service)
}

// UpstreamTimeout marks a deadline exceeded on an outbound call.
func UpstreamTimeout(service string) *ServiceError {
	return New(ErrCodeUpstreamTimeout, "upstream timed out", http.StatusGatewayTimeout).
		WithDetails("service", service)
}

// Cryptographic errors

// DecryptionFailed never falls back to silent plaintext; always surfaced.
func DecryptionFailed(err error) *ServiceError {
	return Wrap(ErrCodeDecryptionFailed, "decryption failed", http.StatusUnprocessableEntity, err)
}

// KeyUnavailable marks a startup/PEM read failure; the caller may substitute
// a documented dev-only sentinel and continue in degraded mode.
func KeyUnavailable(err error) *ServiceError {
	return Wrap(ErrCodeKeyUnavailable, "signing/encryption key unavailable", http.StatusServiceUnavailable, err)
}

// Helpers

// IsServiceError checks if an error is a ServiceError.
func IsServiceError(err error) bool {
	var serviceErr *ServiceError
	return errors.As(err, &serviceErr)
}

// Get extracts a ServiceError from an error chain.
func Get(err error) *ServiceError {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr
	}
	return nil
}

// HTTPStatus returns the HTTP status code for an error.
func HTTPStatus(err error) int {
	if serviceErr := Get(err); serviceErr != nil {
		return serviceErr.HTTPStatus
	}
	return http.StatusInternalServerError
}
