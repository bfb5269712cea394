package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/chatads/chatads-go/internal/apierrors"
)

// Defaults applied by NewClient.
const (
	DefaultEndpoint = "/v1/chatads/messages"
	DefaultTimeout  = 10 * time.Second
)

// Header names sent on every request. Keys are kept lower-case.
const (
	HeaderContentType = "content-type"
	HeaderAPIKey      = "x-api-key"
	HeaderUserAgent   = "user-agent"
	HeaderRequestID   = "x-request-id"
)

// Config holds the settings NewClient validates and freezes.
type Config struct {
	APIKey   string
	BaseURL  string
	Endpoint string
	Timeout  time.Duration
	Retry    *RetryConfig
	// RaiseOnFailure turns 2xx responses that FailureCheck flags into APIErrors.
	RaiseOnFailure bool
	FailureCheck   func(*Envelope) bool
	Transport      Transport
	Logger         *zerolog.Logger
	UserAgent      string
	Recorder       Recorder
	// RequestIDs attaches a generated x-request-id to every call.
	RequestIDs bool
}

// Client is the HTTP API client. It is immutable after NewClient and safe
// for concurrent use.
type Client struct {
	url            string
	apiKey         string
	userAgent      string
	timeout        time.Duration
	retry          *RetryConfig
	raiseOnFailure bool
	failureCheck   func(*Envelope) bool
	transport      Transport
	logger         *zerolog.Logger
	recorder       Recorder
	requestIDs     bool

	newRequestID func() string
	wait         func(ctx context.Context, delay time.Duration) error
	now          func() time.Time
}

// CallOptions are per-call overrides.
type CallOptions struct {
	// Timeout replaces the client timeout when positive.
	Timeout   time.Duration
	Headers   map[string]string
	RequestID string
}

// NewClient validates cfg and builds a Client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, apierrors.New(apierrors.ErrMissingAPIKey, "API key is required", nil)
	}

	base, err := NormalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	c := &Client{
		url:            base + NormalizeEndpoint(endpoint),
		apiKey:         cfg.APIKey,
		userAgent:      cfg.UserAgent,
		timeout:        cfg.Timeout,
		retry:          cfg.Retry,
		raiseOnFailure: cfg.RaiseOnFailure,
		failureCheck:   cfg.FailureCheck,
		transport:      cfg.Transport,
		logger:         cfg.Logger,
		recorder:       cfg.Recorder,
		requestIDs:     cfg.RequestIDs,
		newRequestID:   uuid.NewString,
		wait:           Wait,
		now:            time.Now,
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.retry == nil {
		c.retry = DefaultRetryConfig()
	}
	if c.failureCheck == nil {
		c.failureCheck = DefaultFailureCheck
	}
	if c.transport == nil {
		c.transport = NewRestyTransport(nil, cfg.Logger)
	}
	if c.recorder == nil {
		c.recorder = nopRecorder{}
	}
	return c, nil
}

// URL returns the resolved endpoint URL.
func (c *Client) URL() string {
	return c.url
}

// NormalizeBaseURL trims raw, strips a trailing slash and checks that it is
// an absolute https URL.
func NormalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(raw), "/")
	if trimmed == "" {
		return "", apierrors.Config("base URL is required", nil)
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", apierrors.Config("invalid base URL: "+raw, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return "", apierrors.Config("invalid base URL: "+raw, nil)
	}
	if u.Scheme != "https" {
		return "", apierrors.Config("base URL must start with https://", nil)
	}
	return strings.TrimSuffix(u.String(), "/"), nil
}

// NormalizeEndpoint makes sure the endpoint path starts with a slash.
func NormalizeEndpoint(raw string) string {
	if !strings.HasPrefix(raw, "/") {
		return "/" + raw
	}
	return raw
}

// exchange is everything an attempt needs; it is shared by all attempts of
// one call and never modified after prepare.
type exchange struct {
	url     string
	header  map[string]string
	body    map[string]any
	payload []byte
	timeout time.Duration
}

func (c *Client) prepare(body map[string]any, call CallOptions) (*exchange, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, apierrors.New(apierrors.ErrEncode, "failed to encode ChatAds request body", err)
	}

	header := map[string]string{
		HeaderContentType: "application/json",
		HeaderAPIKey:      c.apiKey,
	}
	if c.userAgent != "" {
		header[HeaderUserAgent] = c.userAgent
	}
	switch {
	case call.RequestID != "":
		header[HeaderRequestID] = call.RequestID
	case c.requestIDs:
		header[HeaderRequestID] = c.newRequestID()
	}
	for key, value := range call.Headers {
		header[strings.ToLower(key)] = value
	}

	timeout := c.timeout
	if call.Timeout > 0 {
		timeout = call.Timeout
	}

	return &exchange{
		url:     c.url,
		header:  header,
		body:    body,
		payload: payload,
		timeout: timeout,
	}, nil
}

// execute performs exactly one network attempt. The attempt deadline is
// released on every return path.
func (c *Client) execute(ctx context.Context, ex *exchange, attempt int) (*Envelope, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, ex.timeout)
	defer cancel()

	c.logAttempt(attempt, ex)

	resp, err := c.transport.Send(attemptCtx, &TransportRequest{
		Method: http.MethodPost,
		URL:    ex.url,
		Header: ex.header,
		Body:   ex.payload,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, apierrors.New(apierrors.ErrCanceled, "ChatAds request canceled", ctx.Err())
		}
		if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			return nil, apierrors.Timeout(ex.timeout, err)
		}
		return nil, err
	}

	if resp == nil {
		return nil, apierrors.New(apierrors.ErrTransport, "transport returned no response", nil)
	}

	env, err := parseEnvelope(resp.Body)
	if err != nil {
		return nil, apierrors.New(apierrors.ErrParse,
			fmt.Sprintf("failed to parse ChatAds response (HTTP %d) as JSON", resp.StatusCode), err)
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !ok || (c.raiseOnFailure && c.failureCheck(env)) {
		return nil, &APIError{
			StatusCode:  resp.StatusCode,
			Response:    env,
			RawBody:     resp.Body,
			Header:      resp.Header,
			RequestBody: ex.body,
			URL:         ex.url,
		}
	}
	return env, nil
}

func parseEnvelope(body []byte) (*Envelope, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return defaultEnvelope(), nil
	}
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	env.normalize()
	return &env, nil
}
