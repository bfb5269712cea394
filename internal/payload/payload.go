// Package payload turns caller-supplied fields into the canonical request
// body sent to the ChatAds API.
package payload

import (
	"sort"
	"strings"

	"github.com/chatads/chatads-go/internal/apierrors"
)

// Wire names of the fields understood by the API.
const (
	FieldMessage   = "message"
	FieldIP        = "ip"
	FieldCountry   = "country"
	FieldLanguage  = "language"
	FieldQuality   = "quality"
	FieldMinIntent = "min_intent"
	FieldPageURL   = "page_url"
	FieldPageTitle = "page_title"
	FieldReferrer  = "referrer"
	FieldUserAgent = "user_agent"

	// ExtraFieldsKey holds free-form fields merged on top of the known ones.
	ExtraFieldsKey = "extraFields"
)

var reserved = map[string]struct{}{
	FieldMessage:   {},
	FieldIP:        {},
	FieldCountry:   {},
	FieldLanguage:  {},
	FieldQuality:   {},
	FieldMinIntent: {},
	FieldPageURL:   {},
	FieldPageTitle: {},
	FieldReferrer:  {},
	FieldUserAgent: {},
}

// aliases maps lower-cased alternative spellings to wire names.
var aliases = map[string]string{
	"fillpriority":  FieldQuality,
	"fill_priority": FieldQuality,
	"minintent":     FieldMinIntent,
	"pageurl":       FieldPageURL,
	"pagetitle":     FieldPageTitle,
	"useragent":     FieldUserAgent,
	"locale":        FieldLanguage,
	"lang":          FieldLanguage,
	"ipaddress":     FieldIP,
	"ip_address":    FieldIP,
	"extrafields":   ExtraFieldsKey,
	"extra_fields":  ExtraFieldsKey,
}

// Reserved reports whether key is a well-known field that extra fields may
// not override.
func Reserved(key string) bool {
	_, ok := reserved[key]
	return ok
}

// CanonicalizeFields rewrites alias keys to their wire names. Unknown keys
// pass through verbatim and nil values are dropped. When a field is given
// both under its wire name and under an alias, the wire name wins.
func CanonicalizeFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	source := make(map[string]string)
	for key, value := range fields {
		if value == nil {
			continue
		}
		canonical, ok := canonicalName(key)
		if !ok {
			out[key] = value
			continue
		}
		// Among several aliases of one field the lexically smallest wins so
		// the result does not depend on map iteration order.
		if prev, seen := source[canonical]; seen && (prev == canonical || (key != canonical && prev < key)) {
			continue
		}
		source[canonical] = key
		out[canonical] = value
	}
	return out
}

func canonicalName(key string) (string, bool) {
	lower := strings.ToLower(key)
	if canonical, ok := aliases[lower]; ok {
		return canonical, true
	}
	if Reserved(lower) {
		return lower, true
	}
	return "", false
}

// Normalize validates fields and produces the canonical body.
//
// The message must be a string that is non-empty after trimming. Every
// other non-nil field is copied as is, then the extra fields container is
// merged on top. Any extra field that collides with a reserved name fails
// the whole payload.
func Normalize(fields map[string]any) (map[string]any, error) {
	raw, ok := fields[FieldMessage].(string)
	message := strings.TrimSpace(raw)
	if !ok || message == "" {
		return nil, apierrors.Validation("payload.message must be a non-empty string")
	}

	extra, err := extraFields(fields[ExtraFieldsKey])
	if err != nil {
		return nil, err
	}

	body := map[string]any{FieldMessage: message}
	for key, value := range fields {
		if key == FieldMessage || key == ExtraFieldsKey || value == nil {
			continue
		}
		body[key] = value
	}

	var conflicts []string
	for key := range extra {
		if Reserved(key) {
			conflicts = append(conflicts, key)
		}
	}
	if len(conflicts) > 0 {
		sort.Strings(conflicts)
		return nil, apierrors.Validation("extraFields contains reserved keys: %s", strings.Join(conflicts, ", "))
	}

	for key, value := range extra {
		body[key] = value
	}
	return body, nil
}

func extraFields(v any) (map[string]any, error) {
	switch extra := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return extra, nil
	case map[string]string:
		out := make(map[string]any, len(extra))
		for k, s := range extra {
			out[k] = s
		}
		return out, nil
	default:
		return nil, apierrors.Validation("extraFields must be an object, got %T", v)
	}
}
