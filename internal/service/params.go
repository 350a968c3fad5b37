package service

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// ExtractScalar unwraps a Dialogflow parameter that may arrive either as a
// scalar or as a singleton list. Nil and empty lists map to nil; non-empty
// lists map to their first element; anything else passes through unchanged.
// Strings and byte slices are never treated as lists.
func ExtractScalar(param any) any {
	if param == nil {
		return nil
	}

	switch v := param.(type) {
	case string, []byte:
		return v
	case []any:
		if len(v) == 0 {
			return nil
		}
		return v[0]
	}

	rv := reflect.ValueOf(param)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		if rv.Len() == 0 {
			return nil
		}
		return rv.Index(0).Interface()
	}

	return param
}

// NormalizeDate coerces a Dialogflow date parameter to a YYYY-MM-DD string.
// Time-of-day, timezone offsets and trailing zone markers are discarded.
// Returns "" when the param is absent or does not parse; the caller tells
// "not supplied" from "malformed" by the original param's presence.
func NormalizeDate(param any) string {
	v := ExtractScalar(param)
	if v == nil {
		return ""
	}

	if t, ok := v.(time.Time); ok {
		return t.Format("2006-01-02")
	}

	s := strings.TrimSpace(fmt.Sprintf("%v", v))
	if i := strings.Index(s, "T"); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, "+"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSuffix(s, "Z")

	if _, err := time.Parse("2006-01-02", s); err != nil {
		return ""
	}

	return s
}

// scalarString extracts a single value and renders it as a string.
// Returns "" for absent params.
func scalarString(param any) string {
	v := ExtractScalar(param)
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}

	return fmt.Sprintf("%v", v)
}
