package api

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Defaults for RetryConfig.
const (
	DefaultMaxRetries = 0
	DefaultBackoff    = 500 * time.Millisecond
)

// DefaultRetryStatuses are the HTTP statuses treated as transient.
var DefaultRetryStatuses = []int{
	http.StatusRequestTimeout,
	http.StatusConflict,
	http.StatusTooEarly,
	http.StatusTooManyRequests,
	http.StatusInternalServerError,
	http.StatusBadGateway,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
}

// RetryConfig configures retry behavior for failed requests.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts after the first.
	MaxRetries int
	// Backoff is the delay before the first retry; it doubles per retry.
	// Zero disables the delay entirely.
	Backoff time.Duration
	// RetryOn holds the statuses that trigger a retry.
	RetryOn map[int]struct{}
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries: DefaultMaxRetries,
		Backoff:    DefaultBackoff,
		RetryOn:    StatusSet(DefaultRetryStatuses),
	}
}

// StatusSet builds a lookup set from a list of status codes.
func StatusSet(statuses []int) map[int]struct{} {
	set := make(map[int]struct{}, len(statuses))
	for _, s := range statuses {
		set[s] = struct{}{}
	}
	return set
}

// Retryable reports whether statusCode is in the retryable set.
func (r *RetryConfig) Retryable(statusCode int) bool {
	_, ok := r.RetryOn[statusCode]
	return ok
}

// Exhausted reports whether attempt (0-based) used up the retry budget.
func (r *RetryConfig) Exhausted(attempt int) bool {
	return attempt >= r.MaxRetries
}

// Delay returns the wait before the retry that follows attempt (0-based).
// A usable hint overrides the exponential formula.
func (r *RetryConfig) Delay(attempt int, hint time.Duration, hasHint bool) time.Duration {
	if hasHint {
		return hint
	}
	if r.Backoff <= 0 {
		return 0
	}
	delay := float64(r.Backoff) * math.Pow(2, float64(attempt))
	if delay >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(delay)
}

// ParseRetryAfter parses a Retry-After value given either as a number of
// seconds or as an HTTP date. Negative results are floored at zero. The
// second return value is false when the value is absent or unparseable.
func ParseRetryAfter(value string, now time.Time) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.ParseInt(value, 10, 64); err == nil {
		if seconds <= 0 {
			return 0, true
		}
		if seconds > int64(math.MaxInt64/int64(time.Second)) {
			return time.Duration(math.MaxInt64), true
		}
		return time.Duration(seconds) * time.Second, true
	}
	if t, err := http.ParseTime(value); err == nil {
		return max(t.Sub(now), 0), true
	}
	return 0, false
}

// Wait blocks for delay or until ctx is done.
func Wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
