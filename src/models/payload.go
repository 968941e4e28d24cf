package models

import (
	"encoding/json"
	"strings"
)

// MPayload is the loosely-typed field map returned by a provider for one ticker.
// Keys follow the Yahoo "info" naming (currentPrice, previousClose, marketCap, ...).
type MPayload map[string]any

// Float returns the numeric field at key. Missing, null, non-numeric and
// non-finite values are all absent.
func (p MPayload) Float(key string) MOptionalFloat {
	val, ok := p[key]
	if !ok || val == nil {
		return None()
	}
	switch v := val.(type) {
	case float64:
		return Some(v)
	case float32:
		return Some(float64(v))
	case int:
		return Some(float64(v))
	case int32:
		return Some(float64(v))
	case int64:
		return Some(float64(v))
	case uint64:
		return Some(float64(v))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return None()
		}
		return Some(f)
	case *float64:
		return FromPtr(v)
	case MOptionalFloat:
		return v
	}
	return None()
}

// String returns the non-blank string field at key.
func (p MPayload) String(key string) (string, bool) {
	val, ok := p[key]
	if !ok || val == nil {
		return "", false
	}
	s, ok := val.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// -----------------------------------------------------------------------------

// MRawQuote is what a provider returns for one ticker before normalization.
// History holds recent closes, most recent last; it may be empty.
type MRawQuote struct {
	Ticker  string
	Payload MPayload
	History []float64
}
