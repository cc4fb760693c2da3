// Package coerce converts loosely-typed spreadsheet values into Go values.
//
// Values reaching the domain come from JSON decoded into map[string]any,
// hand-edited spreadsheet cells and CSV text. None of the helpers fail: an
// unparseable value degrades to the zero value of the target type.
package coerce

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var truthy = map[string]struct{}{
	"true":      {},
	"verdadero": {},
	"sí":        {},
	"si":        {},
	"1":         {},
}

// Bool accepts native booleans or the tokens true/verdadero/sí/si/1
// (case-insensitive, trimmed). Everything else is false.
func Bool(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		_, ok := truthy[strings.ToLower(strings.TrimSpace(t))]
		return ok
	case float64:
		return t == 1
	case int:
		return t == 1
	case json.Number:
		return t.String() == "1"
	default:
		return false
	}
}

// Number parses v as a float, defaulting to zero.
func Number(v any) float64 {
	f, ok := parseNumber(v)
	if !ok {
		return 0
	}
	return f
}

// Int parses v and truncates toward zero, defaulting to zero.
func Int(v any) int {
	return int(Number(v))
}

// OptionalInt returns nil for missing, empty, zero or unparseable values.
// It is used for optional identifiers where zero means "not chosen".
func OptionalInt(v any) *int {
	f, ok := parseNumber(v)
	if !ok || f == 0 {
		return nil
	}
	i := int(f)
	return &i
}

// String renders scalars as text; nil becomes the empty string.
func String(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return FormatNumber(t)
	case int:
		return strconv.Itoa(t)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// FormatNumber renders a float the shortest way that round-trips, so whole
// numbers print without a decimal point.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Strings returns v as a string slice when it is an array of scalars and nil
// otherwise.
func Strings(v any) []string {
	switch t := v.(type) {
	case []string:
		return append([]string{}, t...)
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if item == nil {
				continue
			}
			out = append(out, String(item))
		}
		return out
	default:
		return nil
	}
}

func parseNumber(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
