// Package api implements the HTTP side of the ChatAds client: request
// preparation, a single network attempt, response parsing and the retry loop
// that drives attempts.
//
// # Retry Behavior
//
// Each call makes at most MaxRetries+1 attempts. By default no retries are
// made. When retries are enabled, these statuses are treated as transient:
//
//   - 408 Request Timeout
//   - 409 Conflict
//   - 425 Too Early
//   - 429 Too Many Requests
//   - 500, 502, 503 and 504
//
// Transport failures are retried as well. Timeouts are not: a call whose
// attempt hits its deadline fails immediately with a timeout error.
//
// The wait before retry n (0-based) is Backoff*2^n, unless the server sent a
// usable Retry-After header, which then decides the wait on its own.
//
// # Thread Safety
//
// The [Client] type is safe for concurrent use. Nothing on it changes after
// [NewClient] returns.
package api
