package chatads

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/chatads/chatads-go/internal/api"
)

// Defaults for client options.
const (
	DefaultEndpoint   = api.DefaultEndpoint
	DefaultTimeout    = api.DefaultTimeout
	DefaultMaxRetries = api.DefaultMaxRetries
	DefaultBackoff    = api.DefaultBackoff
)

// DefaultRetryStatuses returns the HTTP statuses retried by default.
func DefaultRetryStatuses() []int {
	return append([]int(nil), api.DefaultRetryStatuses...)
}

// clientConfig holds configuration for the client.
type clientConfig struct {
	endpoint       string
	timeout        time.Duration
	maxRetries     int
	retryOn        []int
	backoff        time.Duration
	raiseOnFailure bool
	failureCheck   func(*Envelope) bool
	transport      Transport
	httpClient     *http.Client
	logger         *zerolog.Logger
	userAgent      string
	registerer     prometheus.Registerer
	requestIDs     bool
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		endpoint:   DefaultEndpoint,
		timeout:    DefaultTimeout,
		maxRetries: DefaultMaxRetries,
		retryOn:    DefaultRetryStatuses(),
		backoff:    DefaultBackoff,
	}
}

// Option configures the client.
type Option func(*clientConfig)

// CallOption configures a single Analyze call.
type CallOption func(*api.CallOptions)

// WithEndpoint sets the endpoint path. A leading slash is added when missing.
// Default: /v1/chatads/messages
func WithEndpoint(path string) Option {
	return func(c *clientConfig) {
		if path != "" {
			c.endpoint = path
		}
	}
}

// WithTimeout sets the timeout of each attempt. Non-positive values are
// ignored.
// Default: 10 seconds
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithMaxRetries sets how many times a failed attempt is retried. Negative
// values mean no retries.
// Default: 0
func WithMaxRetries(count int) Option {
	return func(c *clientConfig) {
		c.maxRetries = max(count, 0)
	}
}

// WithRetryOn sets the HTTP status codes that trigger a retry.
// Default: [408, 409, 425, 429, 500, 502, 503, 504]
func WithRetryOn(statusCodes ...int) Option {
	return func(c *clientConfig) {
		c.retryOn = append([]int(nil), statusCodes...)
	}
}

// WithBackoff sets the delay before the first retry. The delay doubles for
// every further retry; zero disables it.
// Default: 500 milliseconds
func WithBackoff(backoff time.Duration) Option {
	return func(c *clientConfig) {
		c.backoff = max(backoff, 0)
	}
}

// WithRaiseOnFailure makes 2xx responses that report a logical failure
// return an *APIError instead of the envelope.
func WithRaiseOnFailure(raise bool) Option {
	return func(c *clientConfig) {
		c.raiseOnFailure = raise
	}
}

// WithFailureCheck replaces the check deciding whether a 2xx envelope is a
// logical failure. It only has an effect together with WithRaiseOnFailure.
func WithFailureCheck(check func(*Envelope) bool) Option {
	return func(c *clientConfig) {
		c.failureCheck = check
	}
}

// WithTransport replaces the HTTP transport entirely.
func WithTransport(transport Transport) Option {
	return func(c *clientConfig) {
		c.transport = transport
	}
}

// WithHTTPClient sets the *http.Client used by the default transport.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithLogger sets the logger receiving one debug record per attempt. The
// API key is redacted and the body is summarized, never logged verbatim.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = &logger
	}
}

// WithUserAgent sets the user-agent header sent with every request.
func WithUserAgent(userAgent string) Option {
	return func(c *clientConfig) {
		c.userAgent = strings.TrimSpace(userAgent)
	}
}

// WithMetrics registers Prometheus metrics for attempts, retries and calls
// on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *clientConfig) {
		c.registerer = reg
	}
}

// WithRequestIDs sends a generated x-request-id header with every call. All
// attempts of one call share the same id.
func WithRequestIDs() Option {
	return func(c *clientConfig) {
		c.requestIDs = true
	}
}

// WithCallTimeout overrides the client timeout for one call.
func WithCallTimeout(timeout time.Duration) CallOption {
	return func(o *api.CallOptions) {
		o.Timeout = timeout
	}
}

// WithHeader adds a header to one call. Header names are case-insensitive
// and override the client's own headers.
func WithHeader(key, value string) CallOption {
	return func(o *api.CallOptions) {
		if o.Headers == nil {
			o.Headers = make(map[string]string)
		}
		o.Headers[strings.ToLower(key)] = value
	}
}

// WithHeaders adds several headers to one call.
func WithHeaders(headers map[string]string) CallOption {
	return func(o *api.CallOptions) {
		for key, value := range headers {
			WithHeader(key, value)(o)
		}
	}
}

// WithRequestID sets the x-request-id header of one call.
func WithRequestID(id string) CallOption {
	return func(o *api.CallOptions) {
		o.RequestID = id
	}
}
