package chatads

import (
	"github.com/chatads/chatads-go/internal/api"
	"github.com/chatads/chatads-go/internal/apierrors"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingAPIKey is returned when no API key is provided.
	ErrMissingAPIKey = apierrors.ErrMissingAPIKey

	// ErrInvalidConfig is returned when the base URL or loaded configuration is invalid.
	ErrInvalidConfig = apierrors.ErrInvalidConfig

	// ErrValidation is returned when a payload fails validation. The request
	// is never sent.
	ErrValidation = apierrors.ErrValidation

	// ErrEncode is returned when the request body cannot be serialized.
	ErrEncode = apierrors.ErrEncode

	// ErrTimeout is returned when an attempt exceeds its timeout. Timeouts
	// are never retried.
	ErrTimeout = apierrors.ErrTimeout

	// ErrCanceled is returned when the caller's context ends the call.
	ErrCanceled = apierrors.ErrCanceled

	// ErrParse is returned when a response body is not valid JSON, whatever
	// its status. Parse failures are never retried.
	ErrParse = apierrors.ErrParse

	// ErrTransport is returned when transport failures exhausted the retry budget.
	ErrTransport = apierrors.ErrTransport

	// ErrAPI matches every *APIError.
	ErrAPI = apierrors.ErrAPI

	// ErrUnauthorized is returned when the API key is invalid or expired.
	ErrUnauthorized = apierrors.ErrUnauthorized

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = apierrors.ErrRateLimited
)

// APIError is an error reported by the ChatAds API: a non-2xx status, or a
// logical failure in a 2xx body when [WithRaiseOnFailure] is set.
type APIError = api.APIError

// SDKError is a failure produced by the client itself. Its Kind is one of
// the sentinel errors above.
type SDKError = apierrors.SDKError
