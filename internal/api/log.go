package api

import (
	"encoding/json"
	"net/http"
	"reflect"
)

// FieldSummary describes a request body field without its value.
type FieldSummary struct {
	Type   string `json:"type"`
	Length *int   `json:"length,omitempty"`
}

func (c *Client) logAttempt(attempt int, ex *exchange) {
	if c.logger == nil {
		return
	}
	c.logger.Debug().
		Int("attempt", attempt).
		Str("method", http.MethodPost).
		Str("url", ex.url).
		Interface("headers", RedactHeaders(ex.header)).
		Interface("body", SummarizeBody(ex.body)).
		Msg("ChatAds request")
}

// RedactHeaders returns a copy of header with the API key masked.
func RedactHeaders(header map[string]string) map[string]string {
	out := make(map[string]string, len(header))
	for key, value := range header {
		if key == HeaderAPIKey {
			value = redactKey(value)
		}
		out[key] = value
	}
	return out
}

// redactKey keeps at most four leading characters, and never more than half
// of the key.
func redactKey(key string) string {
	n := min(4, len(key)/2)
	return key[:n] + "..."
}

// SummarizeBody maps every body field to its JSON type and, for strings,
// its length.
func SummarizeBody(body map[string]any) map[string]FieldSummary {
	out := make(map[string]FieldSummary, len(body))
	for key, value := range body {
		out[key] = summarize(value)
	}
	return out
}

func summarize(value any) FieldSummary {
	switch v := value.(type) {
	case nil:
		return FieldSummary{Type: "null"}
	case string:
		n := len(v)
		return FieldSummary{Type: "string", Length: &n}
	case bool:
		return FieldSummary{Type: "boolean"}
	case json.Number:
		return FieldSummary{Type: "number"}
	}
	switch reflect.TypeOf(value).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return FieldSummary{Type: "number"}
	case reflect.String:
		n := reflect.ValueOf(value).Len()
		return FieldSummary{Type: "string", Length: &n}
	case reflect.Bool:
		return FieldSummary{Type: "boolean"}
	default:
		return FieldSummary{Type: "object"}
	}
}
