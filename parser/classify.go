package parser

import (
	"strconv"
	"strings"
)

// ParamType is the semantic type assigned to an API parameter.
type ParamType string

const (
	TypeString  ParamType = "String"
	TypeInteger ParamType = "Integer"
	TypeFloat   ParamType = "Float"
	TypeBoolean ParamType = "Boolean"
	TypeDate    ParamType = "Date"
	TypeArray   ParamType = "Array"
	TypeObject  ParamType = "Object"
	TypeUnknown ParamType = "Unknown"
)

// OpenAPIType maps a ParamType to an OpenAPI (type, format) pair.
func (t ParamType) OpenAPIType() (string, string) {
	switch t {
	case TypeInteger:
		return "integer", "int64"
	case TypeFloat:
		return "number", "double"
	case TypeBoolean:
		return "boolean", ""
	case TypeDate:
		return "string", "date"
	case TypeArray:
		return "array", ""
	case TypeObject:
		return "object", ""
	default:
		return "string", ""
	}
}

// Parameter is a typed API method parameter.
type Parameter struct {
	Name        string    `json:"name"`
	Required    bool      `json:"required"`
	Type        ParamType `json:"param_type"`
	Default     *string   `json:"default_value,omitempty"`
	Description string    `json:"description,omitempty"`
}

// InferParamType classifies a parameter from its name and, failing that,
// its default value. Matomo publishes no type metadata, so naming
// convention is the only signal; the rules are an ordered list, first
// match wins.
func InferParamType(name string, def *string) ParamType {
	lower := strings.ToLower(name)

	if strings.Contains(lower, "id") {
		// Plural forms ("ids", "idSites") hold comma-joined ID lists and
		// travel as strings; singular id parameters are numeric. The plural
		// test needs the trailing "s": "idsite" also contains "ids" as a
		// bare substring.
		if strings.HasSuffix(lower, "s") && strings.Contains(lower, "ids") {
			return TypeString
		}
		return TypeInteger
	}
	if strings.Contains(lower, "date") || lower == "day" {
		return TypeDate
	}
	if strings.Contains(lower, "period") {
		return TypeString
	}
	for _, prefix := range []string{"is", "has", "enable", "disable", "show", "hide", "force", "keep"} {
		if strings.HasPrefix(lower, prefix) {
			return TypeBoolean
		}
	}
	for _, frag := range []string{"limit", "offset", "count", "rows", "max", "min"} {
		if strings.Contains(lower, frag) {
			return TypeInteger
		}
	}
	for _, frag := range []string{"expanded", "flat", "serialize"} {
		if strings.Contains(lower, frag) {
			return TypeBoolean
		}
	}

	if def != nil {
		d := *def
		if d == "true" || d == "false" || d == "0" || d == "1" {
			return TypeBoolean
		}
		if _, err := strconv.ParseInt(d, 10, 64); err == nil {
			return TypeInteger
		}
		if _, err := strconv.ParseFloat(d, 64); err == nil {
			return TypeFloat
		}
	}

	return TypeString
}

// ConvertParameter lifts a raw signature parameter into a typed one.
func ConvertParameter(p MethodParameter) Parameter {
	return Parameter{
		Name:     p.Name,
		Required: p.Required,
		Type:     InferParamType(p.Name, p.Default),
		Default:  p.Default,
	}
}

// CommonParameters returns the parameters most Matomo API methods accept.
// They are appended to a method's parameter list when not already
// documented for it.
func CommonParameters() []Parameter {
	zero := "0"
	jsonFormat := "JSON"
	return []Parameter{
		{Name: "idSite", Type: TypeInteger, Description: "The site ID"},
		{Name: "period", Type: TypeString, Description: "The period (day, week, month, year, range)"},
		{Name: "date", Type: TypeString, Description: "The date (YYYY-MM-DD or keywords like 'today', 'yesterday')"},
		{Name: "segment", Type: TypeString, Description: "Segment definition"},
		{Name: "format", Type: TypeString, Default: &jsonFormat, Description: "Response format (JSON, XML, CSV, etc.)"},
		{Name: "filter_limit", Type: TypeInteger, Description: "Limit the number of rows returned"},
		{Name: "filter_offset", Type: TypeInteger, Default: &zero, Description: "Offset for pagination"},
	}
}
