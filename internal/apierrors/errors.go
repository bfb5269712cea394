// Package apierrors provides shared error types for the ChatAds client.
package apierrors

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingAPIKey is returned when no API key is provided.
	ErrMissingAPIKey = errors.New("API key is required")

	// ErrInvalidConfig is returned when the client configuration is invalid.
	ErrInvalidConfig = errors.New("invalid client configuration")

	// ErrValidation is returned when a request payload fails validation.
	ErrValidation = errors.New("invalid request payload")

	// ErrEncode is returned when a request body cannot be serialized.
	ErrEncode = errors.New("request encoding failed")

	// ErrTimeout is returned when an attempt exceeds its deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrCanceled is returned when the caller's context ends a call.
	ErrCanceled = errors.New("request canceled")

	// ErrParse is returned when a response body is not valid JSON.
	ErrParse = errors.New("response parsing failed")

	// ErrTransport is returned for transport failures that exhausted the retry budget.
	ErrTransport = errors.New("transport failure")

	// ErrAPI matches every error reported by the ChatAds API.
	ErrAPI = errors.New("ChatAds API error")

	// ErrUnauthorized is returned when the API key is invalid or expired.
	ErrUnauthorized = errors.New("invalid or expired API key")

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// SDKError is a failure produced locally by the client rather than reported
// by the server: configuration, validation, serialization, timeout,
// cancellation, parsing and transport failures.
type SDKError struct {
	Kind    error
	Message string
	Err     error
}

func (e *SDKError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *SDKError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *SDKError) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

// New returns an SDKError of the given kind.
func New(kind error, message string, cause error) *SDKError {
	return &SDKError{Kind: kind, Message: message, Err: cause}
}

// Validation returns an ErrValidation SDKError.
func Validation(format string, args ...any) *SDKError {
	return New(ErrValidation, fmt.Sprintf(format, args...), nil)
}

// Config returns an ErrInvalidConfig SDKError.
func Config(message string, cause error) *SDKError {
	return New(ErrInvalidConfig, message, cause)
}

// Timeout returns an ErrTimeout SDKError naming the timeout that elapsed.
func Timeout(timeout time.Duration, cause error) *SDKError {
	return New(ErrTimeout, fmt.Sprintf("ChatAds request timed out after %s", timeout), cause)
}
