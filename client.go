package chatads

import (
	"context"

	"github.com/chatads/chatads-go/internal/api"
	"github.com/chatads/chatads-go/internal/apierrors"
	"github.com/chatads/chatads-go/internal/metrics"
	"github.com/chatads/chatads-go/internal/payload"
)

// Client is the ChatAds API client. It is safe for concurrent use.
type Client struct {
	apiClient *api.Client
}

// Payload is the typed form of a message analysis request. Empty strings
// are left out of the request.
type Payload struct {
	Message   string
	IP        string
	Country   string
	Language  string
	Quality   string
	MinIntent string
	PageURL   string
	PageTitle string
	Referrer  string
	UserAgent string

	// ExtraFields are sent next to the fields above. They may not reuse any
	// of their names.
	ExtraFields map[string]any
}

// Fields returns p in the map form accepted by AnalyzeFields.
func (p *Payload) Fields() map[string]any {
	fields := map[string]any{payload.FieldMessage: p.Message}
	set := func(key, value string) {
		if value != "" {
			fields[key] = value
		}
	}
	set(payload.FieldIP, p.IP)
	set(payload.FieldCountry, p.Country)
	set(payload.FieldLanguage, p.Language)
	set(payload.FieldQuality, p.Quality)
	set(payload.FieldMinIntent, p.MinIntent)
	set(payload.FieldPageURL, p.PageURL)
	set(payload.FieldPageTitle, p.PageTitle)
	set(payload.FieldReferrer, p.Referrer)
	set(payload.FieldUserAgent, p.UserAgent)
	if len(p.ExtraFields) > 0 {
		fields[payload.ExtraFieldsKey] = p.ExtraFields
	}
	return fields
}

// New creates a new ChatAds client for the API at baseURL, which must be an
// https URL.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return newClient(apiKey, baseURL, cfg)
}

// NewFromConfig creates a client from a loaded Config. Options are applied
// after the Config values and take precedence.
func NewFromConfig(c *Config, opts ...Option) (*Client, error) {
	if c == nil {
		return nil, apierrors.Config("config is nil", nil)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return New(c.APIKey, c.BaseURL, append(c.options(), opts...)...)
}

func newClient(apiKey, baseURL string, cfg *clientConfig) (*Client, error) {
	transport := cfg.transport
	if transport == nil {
		transport = api.NewRestyTransport(cfg.httpClient, cfg.logger)
	}

	apiCfg := api.Config{
		APIKey:   apiKey,
		BaseURL:  baseURL,
		Endpoint: cfg.endpoint,
		Timeout:  cfg.timeout,
		Retry: &api.RetryConfig{
			MaxRetries: cfg.maxRetries,
			Backoff:    cfg.backoff,
			RetryOn:    api.StatusSet(cfg.retryOn),
		},
		RaiseOnFailure: cfg.raiseOnFailure,
		FailureCheck:   cfg.failureCheck,
		Transport:      transport,
		Logger:         cfg.logger,
		UserAgent:      cfg.userAgent,
		RequestIDs:     cfg.requestIDs,
	}

	if cfg.registerer != nil {
		collector, err := metrics.New(cfg.registerer)
		if err != nil {
			return nil, apierrors.Config("failed to register metrics", err)
		}
		apiCfg.Recorder = collector
	}

	apiClient, err := api.NewClient(apiCfg)
	if err != nil {
		return nil, err
	}
	return &Client{apiClient: apiClient}, nil
}

// URL returns the endpoint URL requests are sent to.
func (c *Client) URL() string {
	return c.apiClient.URL()
}

// Analyze sends p for analysis.
func (c *Client) Analyze(ctx context.Context, p *Payload, opts ...CallOption) (*Envelope, error) {
	if p == nil {
		return nil, apierrors.Validation("payload is required")
	}
	return c.AnalyzeFields(ctx, p.Fields(), opts...)
}

// AnalyzeMessage sends message together with optional fields. Field names
// may use any known alias, such as "pageUrl" or "fill_priority".
func (c *Client) AnalyzeMessage(ctx context.Context, message string, fields map[string]any, opts ...CallOption) (*Envelope, error) {
	body := payload.CanonicalizeFields(fields)
	body[payload.FieldMessage] = message
	return c.AnalyzeFields(ctx, body, opts...)
}

// AnalyzeFields sends a payload given in map form. The map must hold a
// "message" and may hold an "extraFields" map merged into the request.
//
// Validation failures return an ErrValidation error without any request
// being made.
func (c *Client) AnalyzeFields(ctx context.Context, fields map[string]any, opts ...CallOption) (*Envelope, error) {
	body, err := payload.Normalize(fields)
	if err != nil {
		return nil, err
	}

	var call api.CallOptions
	for _, opt := range opts {
		opt(&call)
	}
	return c.apiClient.Post(ctx, body, call)
}
