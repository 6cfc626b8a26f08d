package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Details holds the free-form parameters of an intent as decoded from JSON.
// Numbers arrive as float64, lists as []any.
type Details map[string]any

// Has returns true if the key is present and not null.
func (d Details) Has(key string) bool {
	v, ok := d[key]
	return ok && v != nil
}

// String returns the value for key as a string, or def if absent or empty.
func (d Details) String(key, def string) string {
	switch v := d[key].(type) {
	case string:
		if v == "" {
			return def
		}
		return v
	case nil:
		return def
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return def
	}
}

// Int returns the value for key as an int, or def if absent or not numeric.
func (d Details) Int(key string, def int) int {
	switch v := d[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return def
		}
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

// StringSlice returns the value for key as a list of strings.
// A single string is split on commas.
func (d Details) StringSlice(key string) []string {
	switch v := d[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			switch s := item.(type) {
			case string:
				if s != "" {
					out = append(out, s)
				}
			case map[string]any:
				// Attendee style objects: {"email": "..."}
				if email, ok := s["email"].(string); ok && email != "" {
					out = append(out, email)
				}
			}
		}
		return out
	case string:
		var out []string
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		return out
	default:
		return nil
	}
}

// Without returns a copy of the details with the given keys removed.
func (d Details) Without(keys ...string) Details {
	out := make(Details, len(d))
	for k, v := range d {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}
