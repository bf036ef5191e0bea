// internal/engine/errors.go
package engine

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	ErrCodeValidation  ErrorCode = "VALIDATION"
	ErrCodeTransport   ErrorCode = "TRANSPORT_EXHAUSTED"
	ErrCodeNotFound    ErrorCode = "NOT_FOUND"
	ErrCodeTimeout     ErrorCode = "TIMEOUT"
	ErrCodeBrowser     ErrorCode = "BROWSER_ERROR"
	ErrCodeParseError  ErrorCode = "PARSE_ERROR"
	ErrCodeStrategy    ErrorCode = "STRATEGY_ERROR"
	ErrCodeUnsupported ErrorCode = "UNSUPPORTED"
	ErrCodeInternal    ErrorCode = "INTERNAL"
)

// User-facing messages for the errors that cross the extraction boundary
const (
	MsgInvalidURL         = "please enter a valid Pinterest board URL"
	MsgTransportExhausted = "connection failed: the page could not be reached, try again in a few seconds"
	MsgNoIdentifier       = "could not locate the board id: the board may be private, removed, or the page structure changed"
)

// Sentinels match any EngineError carrying the same code:
//
//	errors.Is(err, engine.ErrNoIdentifier)
var (
	ErrInvalidURL         = &EngineError{Code: ErrCodeValidation, Message: MsgInvalidURL}
	ErrTransportExhausted = &EngineError{Code: ErrCodeTransport, Message: MsgTransportExhausted}
	ErrNoIdentifier       = &EngineError{Code: ErrCodeNotFound, Message: MsgNoIdentifier}
	ErrBrowserNotFound    = &EngineError{Code: ErrCodeBrowser, Message: "chrome browser not found"}
)

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

// Is checks if the error matches the target
func (e *EngineError) Is(target error) bool {
	if t, ok := target.(*EngineError); ok {
		return e.Code == t.Code
	}
	return errors.Is(e.Underlying, target)
}

// Retryable reports whether re-running the whole extraction may succeed
func (e *EngineError) Retryable() bool {
	return e.Retry
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
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// CodeOf returns the code of the first EngineError in err's chain
func CodeOf(err error) ErrorCode {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}

// UserMessage returns the message to show a person for err
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ee *EngineError
	if errors.As(err, &ee) && ee.Message != "" {
		return ee.Message
	}
	return err.Error()
}
