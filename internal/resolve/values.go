package resolve

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/pagebuilder/internal/record"
)

const valueKey = "@value"

// IsPresent reports whether v carries data: a non-blank string, any number
// (zero included), a non-empty list, a mapping with a non-blank @value, or a
// non-empty mapping without @value. Booleans and nil are never present.
func IsPresent(v any) bool {
	switch t := v.(type) {
	case nil, bool:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	case []any:
		return len(t) > 0
	case []string:
		return len(t) > 0
	case map[string]any:
		if raw, ok := t[valueKey]; ok {
			s, isString := raw.(string)
			return isString && strings.TrimSpace(s) != ""
		}
		return len(t) > 0
	default:
		_, ok := Numeric(v)
		return ok
	}
}

// FirstNonEmpty returns the first candidate that renders as a fact: a
// trimmed non-blank string, a number, or a mapping with a non-blank @value.
func FirstNonEmpty(candidates ...any) string {
	for _, c := range candidates {
		switch t := c.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return s
			}
		case map[string]any:
			if s, ok := t[valueKey].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		default:
			if s, ok := FormatNumber(c); ok {
				return s
			}
		}
	}
	return ""
}

// FirstOf returns FirstNonEmpty over the values of keys in rec.
func FirstOf(rec record.Record, keys ...string) string {
	if rec == nil {
		return ""
	}
	candidates := make([]any, len(keys))
	for i, k := range keys {
		candidates[i] = rec[k]
	}
	return FirstNonEmpty(candidates...)
}

// FirstPresent returns the value of the first key in rec that IsPresent.
func FirstPresent(rec record.Record, keys ...string) any {
	for _, k := range keys {
		if v, ok := rec[k]; ok && IsPresent(v) {
			return v
		}
	}
	return nil
}

// AsList renders v as a list of trimmed, non-empty strings. A list is
// stringified element by element; a string is split on commas.
func AsList(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := strings.TrimSpace(stringify(item)); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := strings.TrimSpace(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		var out []string
		for part := range strings.SplitSeq(t, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		if s, ok := FormatNumber(v); ok {
			return s
		}
		return fmt.Sprint(v)
	}
}

// Numeric returns v as a float64 when v is a real number.
func Numeric(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	default:
		return 0, false
	}
}

// FormatNumber renders a number the way it was written: integers without a
// fraction, whole floats with a single ".0".
func FormatNumber(v any) (string, bool) {
	switch t := v.(type) {
	case int:
		return strconv.Itoa(t), true
	case int32:
		return strconv.FormatInt(int64(t), 10), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	case float32:
		return formatFloat(float64(t)), true
	case float64:
		return formatFloat(t), true
	default:
		return "", false
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e16 {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Truthy interprets flag-like values such as "featured": true.
func Truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "y", "1", "on":
			return true
		}
		return false
	default:
		if f, ok := Numeric(v); ok {
			return f != 0
		}
		return false
	}
}
