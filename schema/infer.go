package schema

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	dateRe     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dateTimeRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}`)
)

// Infer builds a Schema describing the shape of a decoded JSON value.
// It is deterministic and never fails; v must be the result of
// unmarshalling into any (nil, bool, float64, json.Number, string,
// []any or map[string]any).
func Infer(v any) *Schema {
	switch val := v.(type) {
	case nil:
		return &Schema{Type: "null", Nullable: true}

	case bool:
		return &Schema{Type: "boolean"}

	case float64:
		return inferNumber(val)

	case json.Number:
		if _, err := strconv.ParseInt(val.String(), 10, 64); err == nil {
			return &Schema{Type: "integer", Format: "int64"}
		}
		if _, err := strconv.ParseUint(val.String(), 10, 64); err == nil {
			return &Schema{Type: "integer", Format: "int64"}
		}
		return &Schema{Type: "number", Format: "double"}

	case string:
		return inferString(val)

	case []any:
		if len(val) == 0 {
			// No evidence about element shape.
			return &Schema{Type: "array", Items: &Schema{Type: "object"}}
		}
		items := make([]*Schema, 0, len(val))
		for _, elem := range val {
			items = append(items, Infer(elem))
		}
		return &Schema{Type: "array", Items: Merge(items)}

	case map[string]any:
		if len(val) == 0 {
			return &Schema{Type: "object"}
		}
		props := make(map[string]*Schema, len(val))
		for key, elem := range val {
			props[key] = Infer(elem)
		}
		// Properties stay optional: presence in one example does not
		// prove presence in all responses.
		return &Schema{Type: "object", Properties: props}

	default:
		return &Schema{Type: "object"}
	}
}

func inferNumber(f float64) *Schema {
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return &Schema{Type: "number", Format: "double"}
	}
	// Whole values that fit a 64-bit signed or unsigned integer.
	if f >= math.MinInt64 && f < 1<<64 {
		return &Schema{Type: "integer", Format: "int64"}
	}
	return &Schema{Type: "number", Format: "double"}
}

// inferString classifies string content, first match wins.
func inferString(s string) *Schema {
	switch {
	case dateRe.MatchString(s):
		return &Schema{Type: "string", Format: "date"}
	case dateTimeRe.MatchString(s):
		return &Schema{Type: "string", Format: "date-time"}
	case strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://"):
		return &Schema{Type: "string", Format: "uri"}
	case strings.Contains(s, "@") && strings.Contains(s, "."):
		return &Schema{Type: "string", Format: "email"}
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return &Schema{Type: "string", Description: "Numeric string"}
	}
	return &Schema{Type: "string"}
}
