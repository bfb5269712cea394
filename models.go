package chatads

import "github.com/chatads/chatads-go/internal/api"

// Response types.
type (
	Envelope    = api.Envelope
	AnalyzeData = api.AnalyzeData
	Offer       = api.Offer
	Product     = api.Product
	ErrorInfo   = api.ErrorInfo
	Meta        = api.Meta
	UsageInfo   = api.UsageInfo
)

// UnknownRequestID is reported in Meta.RequestID when the server did not
// return one.
const UnknownRequestID = api.UnknownRequestID

// Transport types, for callers that bring their own HTTP stack.
type (
	Transport         = api.Transport
	TransportFunc     = api.TransportFunc
	TransportRequest  = api.TransportRequest
	TransportResponse = api.TransportResponse
)

// DefaultFailureCheck is the logical failure check used unless
// [WithFailureCheck] replaces it.
func DefaultFailureCheck(env *Envelope) bool {
	return api.DefaultFailureCheck(env)
}
