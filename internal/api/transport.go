package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// TransportRequest is a single HTTP exchange handed to a Transport.
type TransportRequest struct {
	Method string
	URL    string
	// Header keys are lower-case.
	Header map[string]string
	Body   []byte
}

// TransportResponse is the fully read result of a TransportRequest.
type TransportResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport performs one HTTP exchange. Implementations must stop and
// return an error once ctx is done.
type Transport interface {
	Send(ctx context.Context, req *TransportRequest) (*TransportResponse, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *TransportRequest) (*TransportResponse, error)

// Send calls f(ctx, req).
func (f TransportFunc) Send(ctx context.Context, req *TransportRequest) (*TransportResponse, error) {
	return f(ctx, req)
}

// RestyTransport sends requests with a resty client. Resty's own retry
// machinery is disabled; attempts are driven by Client.
type RestyTransport struct {
	client *resty.Client
}

// NewRestyTransport wraps httpClient in a resty client. A nil httpClient
// uses resty's defaults.
func NewRestyTransport(httpClient *http.Client, logger *zerolog.Logger) *RestyTransport {
	var rc *resty.Client
	if httpClient != nil {
		rc = resty.NewWithClient(httpClient)
	} else {
		rc = resty.New()
	}
	rc.SetRetryCount(0)
	if logger != nil {
		rc.SetLogger(restyLogger{log: *logger})
	} else {
		rc.SetLogger(restyLogger{log: zerolog.Nop()})
	}
	return &RestyTransport{client: rc}
}

// Send implements Transport.
func (t *RestyTransport) Send(ctx context.Context, req *TransportRequest) (*TransportResponse, error) {
	r := t.client.R().
		SetContext(ctx).
		SetHeaders(req.Header)
	if len(req.Body) > 0 {
		r.SetBody(req.Body)
	}
	resp, err := r.Execute(req.Method, req.URL)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL, err)
	}
	return &TransportResponse{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}, nil
}

// restyLogger routes resty's internal messages to zerolog.
type restyLogger struct {
	log zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) { l.log.Error().Msgf(format, v...) }
func (l restyLogger) Warnf(format string, v ...any)  { l.log.Warn().Msgf(format, v...) }
func (l restyLogger) Debugf(format string, v ...any) { l.log.Debug().Msgf(format, v...) }
