package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/chatads/chatads-go/internal/apierrors"
)

// APIError is returned when the server answers with a non-2xx status, or
// with a 2xx status whose body signals a logical failure while the client
// is configured to raise on those.
type APIError struct {
	StatusCode int
	Response    *Envelope
	RawBody     []byte
	Header      http.Header
	RequestBody map[string]any
	URL         string
}

func (e *APIError) Error() string {
	detail := fmt.Sprintf("HTTP %d", e.StatusCode)
	if e.Response != nil && e.Response.Error != nil {
		detail = fmt.Sprintf("%s: %s", e.Response.Error.Code, e.Response.Error.Message)
	}
	return fmt.Sprintf("ChatAds API error %d: %s", e.StatusCode, detail)
}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	if target == apierrors.ErrAPI {
		return true
	}
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return target == apierrors.ErrUnauthorized
	case http.StatusTooManyRequests:
		return target == apierrors.ErrRateLimited
	}
	return false
}

// RetryAfter returns the raw Retry-After header value, or "" when absent.
// Header names are matched case-insensitively.
func (e *APIError) RetryAfter() string {
	if v := e.Header.Get("Retry-After"); v != "" {
		return v
	}
	for key, values := range e.Header {
		if strings.EqualFold(key, "Retry-After") && len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

// RequestID returns the request id the server assigned, if any.
func (e *APIError) RequestID() string {
	if e.Response == nil {
		return ""
	}
	return e.Response.Meta.RequestID
}
