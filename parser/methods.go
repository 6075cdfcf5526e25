// Package parser turns Matomo's loosely structured self-description — the
// getReportMetadata discovery payload and the listAllAPI reference page —
// into typed method definitions ready for OpenAPI generation.
package parser

import (
	"fmt"
	"sort"

	"github.com/FGRibreau/mcp-matomo/internal"
	"github.com/FGRibreau/mcp-matomo/schema"
)

// ReportMethod is one entry parsed from the method discovery payload.
type ReportMethod struct {
	Module        string
	Action        string
	Name          string
	Documentation string
	Category      string
}

// Method is a fully assembled API method definition.
type Method struct {
	Name            string         `json:"name"`
	Module          string         `json:"module"`
	Action          string         `json:"action"`
	Parameters      []Parameter    `json:"parameters"`
	ExampleResponse any            `json:"example_response,omitempty"`
	ResponseSchema  *schema.Schema `json:"response_schema,omitempty"`
	Description     string         `json:"description,omitempty"`
	Category        string         `json:"category,omitempty"`
}

// ParseMethodList parses the decoded discovery payload. Two shapes are
// accepted: the getReportMetadata array of records, and the simpler
// module-to-actions object. Records without both module and action are
// dropped. Any other top-level shape is an error.
func ParseMethodList(payload any) ([]ReportMethod, error) {
	var methods []ReportMethod

	switch v := payload.(type) {
	case []any:
		// [{"module": "...", "action": "...", "name": "...", ...}, ...]
		for _, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			module := stringField(obj, "module")
			action := stringField(obj, "action")
			if module == "" || action == "" {
				continue
			}
			methods = append(methods, ReportMethod{
				Module:        module,
				Action:        action,
				Name:          stringField(obj, "name"),
				Documentation: stringField(obj, "documentation"),
				Category:      stringField(obj, "category"),
			})
		}

	case map[string]any:
		// Fallback: { "Module": ["action1", "action2"], ... }
		// Module order is sorted so output is stable across runs.
		modules := make([]string, 0, len(v))
		for module := range v {
			modules = append(modules, module)
		}
		sort.Strings(modules)
		for _, module := range modules {
			arr, ok := v[module].([]any)
			if !ok {
				continue
			}
			for _, action := range arr {
				name, ok := action.(string)
				if !ok {
					continue
				}
				methods = append(methods, ReportMethod{
					Module: module,
					Action: name,
					Name:   module + "." + name,
				})
			}
		}

	default:
		return nil, fmt.Errorf("unexpected method list format")
	}

	internal.Logf("parsed %d methods from API", len(methods))
	return methods, nil
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

// Build assembles a Method from a discovered record and the metadata
// scraped from the API reference. Documented parameters come first; common
// parameters are appended only when the name is not already taken.
func Build(rm ReportMethod, meta map[string]MethodMetadata) Method {
	name := rm.Module + "." + rm.Action

	var params []Parameter
	if m, ok := meta[name]; ok {
		for _, p := range m.Parameters {
			params = append(params, ConvertParameter(p))
		}
	}

	for _, common := range CommonParameters() {
		exists := false
		for _, p := range params {
			if p.Name == common.Name {
				exists = true
				break
			}
		}
		if !exists {
			params = append(params, common)
		}
	}

	return Method{
		Name:        name,
		Module:      rm.Module,
		Action:      rm.Action,
		Parameters:  params,
		Description: rm.Documentation,
		Category:    rm.Category,
	}
}
