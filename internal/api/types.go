package api

import "encoding/json"

// UnknownRequestID is reported when the server did not return a request id.
const UnknownRequestID = "unknown"

// Envelope is the normalized response of the messages endpoint.
type Envelope struct {
	// Success is only present on legacy responses.
	Success *bool       `json:"success,omitempty"`
	Data    AnalyzeData `json:"data"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    Meta        `json:"meta"`
}

// AnalyzeData is the data section of an analysis response.
type AnalyzeData struct {
	Status    string  `json:"status,omitempty"`
	Offers    []Offer `json:"offers"`
	Requested int     `json:"requested"`
	Returned  int     `json:"returned"`
}

// Offer is a single affiliate offer matched to the message.
type Offer struct {
	LinkText        string   `json:"link_text"`
	URL             string   `json:"url"`
	ConfidenceLevel string   `json:"confidence_level,omitempty"`
	ConfidenceScore *float64 `json:"confidence_score,omitempty"`
	SearchTerm      string   `json:"search_term,omitempty"`
	URLSource       string   `json:"url_source,omitempty"`
	Product         *Product `json:"product,omitempty"`
}

// Product describes the product behind an offer, when the API resolved one.
type Product struct {
	Title    string   `json:"title,omitempty"`
	Brand    string   `json:"brand,omitempty"`
	Category string   `json:"category,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	Currency string   `json:"currency,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
}

// ErrorInfo is the error section of a response.
type ErrorInfo struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details,omitempty"`
}

// Meta is the metadata section of a response.
type Meta struct {
	RequestID        string     `json:"request_id"`
	UserID           *string    `json:"user_id,omitempty"`
	Country          *string    `json:"country,omitempty"`
	Language         *string    `json:"language,omitempty"`
	ProcessingTimeMS *float64   `json:"processing_time_ms,omitempty"`
	Usage            *UsageInfo `json:"usage,omitempty"`
}

// UsageInfo reports quota consumption for the API key.
type UsageInfo struct {
	MonthlyRequests   int  `json:"monthly_requests"`
	FreeTierLimit     int  `json:"free_tier_limit"`
	FreeTierRemaining int  `json:"free_tier_remaining"`
	IsFreeTier        bool `json:"is_free_tier"`
	HasCreditCard     bool `json:"has_credit_card"`
	DailyRequests     *int `json:"daily_requests,omitempty"`
	DailyLimit        *int `json:"daily_limit,omitempty"`
	MinuteRequests    *int `json:"minute_requests,omitempty"`
	MinuteLimit       *int `json:"minute_limit,omitempty"`
}

// defaultEnvelope is what an empty response body decodes to.
func defaultEnvelope() *Envelope {
	success := false
	env := &Envelope{Success: &success}
	env.normalize()
	return env
}

// normalize fills in the defaults for sections the server left out.
func (e *Envelope) normalize() {
	if e.Data.Offers == nil {
		e.Data.Offers = []Offer{}
	}
	if e.Meta.RequestID == "" {
		e.Meta.RequestID = UnknownRequestID
	}
}

// DefaultFailureCheck reports a logical failure when the envelope carries an
// error section or an explicit "success": false.
func DefaultFailureCheck(env *Envelope) bool {
	if env == nil {
		return false
	}
	if env.Error != nil {
		return true
	}
	return env.Success != nil && !*env.Success
}
