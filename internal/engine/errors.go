// internal/engine/errors.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Common engine errors
var (
	ErrTimeout      = errors.New("request timeout")
	ErrInvalidURL   = errors.New("invalid URL")
	ErrNetworkError = errors.New("network error")
	ErrParseError   = errors.New("failed to parse response")
	ErrHTTPStatus   = errors.New("unexpected HTTP status")
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeTimeout      ErrorCode = "TIMEOUT"
	ErrCodeValidation   ErrorCode = "VALIDATION"
	ErrCodeNetworkError ErrorCode = "NETWORK_ERROR"
	ErrCodeParseError   ErrorCode = "PARSE_ERROR"
	ErrCodeHTTPStatus   ErrorCode = "HTTP_STATUS"
)

var codeSentinels = map[ErrorCode]error{
	ErrCodeTimeout:      ErrTimeout,
	ErrCodeValidation:   ErrInvalidURL,
	ErrCodeNetworkError: ErrNetworkError,
	ErrCodeParseError:   ErrParseError,
	ErrCodeHTTPStatus:   ErrHTTPStatus,
	ErrCodeNotFound:     ErrHTTPStatus,
}

// EngineError wraps errors with additional context
type EngineError struct {
	Code       ErrorCode
	Message    string
	Underlying error
	Retry      bool
	Details    map[string]interface{}
}

// Error implements the error interface
func (e *EngineError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *EngineError) Unwrap() error {
	return e.Underlying
}

// Is checks if the error matches the target, either another EngineError with the same code
// or the sentinel error for this code
func (e *EngineError) Is(target error) bool {
	if t, ok := target.(*EngineError); ok {
		return e.Code == t.Code
	}
	if sentinel, ok := codeSentinels[e.Code]; ok && sentinel == target {
		return true
	}
	return errors.Is(e.Underlying, target)
}

// NewEngineError creates a new EngineError
func NewEngineError(code ErrorCode, message string, err error) *EngineError {
	return &EngineError{
		Code:       code,
		Message:    message,
		Underlying: err,
		Retry:      false,
		Details:    make(map[string]interface{}),
	}
}

// WithRetry marks the error as retryable
func (e *EngineError) WithRetry() *EngineError {
	e.Retry = true
	return e
}

// WithDetail adds a detail to the error
func (e *EngineError) WithDetail(key string, value interface{}) *EngineError {
	e.Details[key] = value
	return e
}

// Timeout reports whether the error was caused by a deadline
func (e *EngineError) Timeout() bool {
	return e.Code == ErrCodeTimeout
}

// ClassifyTransportError maps an error returned by http.Client.Do to an EngineError
func ClassifyTransportError(url string, err error) *EngineError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return NewEngineError(ErrCodeTimeout, "request timed out", err).WithDetail("url", url)
	}
	return NewEngineError(ErrCodeNetworkError, "failed to fetch URL", err).WithDetail("url", url)
}
