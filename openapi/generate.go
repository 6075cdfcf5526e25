package openapi

import (
	"fmt"
	"strconv"

	"github.com/FGRibreau/mcp-matomo/parser"
	"github.com/FGRibreau/mcp-matomo/schema"
)

// Generate assembles the OpenAPI document for a set of API methods. Paths
// appear in method order; one tag is registered per module, first
// description wins. Two methods mapping to the same path key would
// overwrite each other — keys derive from (module, action), which the
// discovery payload keeps unique.
func Generate(methods []parser.Method, baseURL, version string) *Spec {
	paths := NewPaths()
	var tags []Tag
	seenModules := make(map[string]bool)

	for i := range methods {
		m := &methods[i]
		if !seenModules[m.Module] {
			seenModules[m.Module] = true
			tags = append(tags, Tag{
				Name:        m.Module,
				Description: fmt.Sprintf("%s module API methods", m.Module),
			})
		}

		key := fmt.Sprintf("/index.php?module=API&method=%s.%s&format=json", m.Module, m.Action)
		paths.Set(key, &PathItem{Get: createOperation(m)})
	}

	return &Spec{
		OpenAPI: "3.0.3",
		Info: Info{
			Title: "Matomo Analytics API",
			Description: "Auto-generated OpenAPI specification for Matomo Analytics API. " +
				"This specification was generated by introspecting the Matomo API endpoints.",
			Version: version,
			Contact: &Contact{Name: "Matomo", URL: "https://matomo.org"},
			License: &License{Name: "GPL-3.0", URL: "https://www.gnu.org/licenses/gpl-3.0.html"},
		},
		Servers: []Server{{URL: baseURL, Description: "Matomo instance"}},
		Paths:   paths,
		Components: &Components{
			SecuritySchemes: map[string]SecurityScheme{
				"token_auth": {
					Type:        "apiKey",
					Description: "Matomo authentication token",
					Name:        "token_auth",
					In:          "query",
				},
				"cookieAuth": {
					Type:        "apiKey",
					Description: "Session cookie authentication",
					Name:        "MATOMO_SESSID",
					In:          "cookie",
				},
			},
		},
		Tags: tags,
	}
}

func createOperation(m *parser.Method) *Operation {
	params := make([]Parameter, 0, len(m.Parameters))
	for _, p := range m.Parameters {
		params = append(params, convertParameter(p))
	}

	responseSchema := m.ResponseSchema
	if responseSchema == nil {
		responseSchema = &schema.Schema{Type: "object", Description: "API response"}
	}

	responses := map[string]Response{
		"200": {
			Description: "Successful response",
			Content: map[string]MediaType{
				"application/json": {Schema: responseSchema, Example: m.ExampleResponse},
			},
		},
		"400": {Description: "Bad request - invalid parameters"},
		"401": {Description: "Unauthorized - authentication required"},
	}

	return &Operation{
		OperationID: fmt.Sprintf("%s_%s", m.Module, m.Action),
		Summary:     fmt.Sprintf("%s.%s", m.Module, m.Action),
		Description: m.Description,
		Tags:        []string{m.Module},
		Parameters:  params,
		Responses:   responses,
		Security:    []map[string][]string{{"token_auth": {}}},
	}
}

func convertParameter(p parser.Parameter) Parameter {
	typ, format := p.Type.OpenAPIType()

	return Parameter{
		Name:        p.Name,
		In:          "query",
		Description: p.Description,
		Required:    p.Required,
		Schema: ParameterSchema{
			Type:    typ,
			Format:  format,
			Default: typedDefault(p),
			Enum:    enumValues(p.Name),
		},
	}
}

// typedDefault converts the textual default into the parameter's wire
// type, falling back to the raw string when it does not parse.
func typedDefault(p parser.Parameter) any {
	if p.Default == nil {
		return nil
	}
	d := *p.Default

	switch p.Type {
	case parser.TypeInteger:
		if n, err := strconv.ParseInt(d, 10, 64); err == nil {
			return n
		}
	case parser.TypeFloat:
		if f, err := strconv.ParseFloat(d, 64); err == nil {
			return f
		}
	case parser.TypeBoolean:
		return d == "true" || d == "1"
	}
	return d
}

// enumValues returns the legal values for the well-known Matomo
// parameters that have a closed set.
func enumValues(name string) []string {
	switch name {
	case "period":
		return []string{"day", "week", "month", "year", "range"}
	case "format":
		return []string{"JSON", "XML", "CSV", "TSV", "HTML", "PHP", "RSS"}
	}
	return nil
}
