package openapi

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/FGRibreau/mcp-matomo/internal"
)

// MethodSummary is a compact listing entry for one API method.
type MethodSummary struct {
	Name    string `json:"name"`
	Module  string `json:"module"`
	Summary string `json:"summary,omitempty"`
}

// MethodDetail is the full documentation for one API method.
type MethodDetail struct {
	Name        string          `json:"name"`
	Module      string          `json:"module"`
	Action      string          `json:"action"`
	Summary     string          `json:"summary,omitempty"`
	Description string          `json:"description,omitempty"`
	Parameters  []ParameterInfo `json:"parameters,omitempty"`
}

// ParameterInfo describes a single method parameter.
type ParameterInfo struct {
	Name        string   `json:"name"`
	Required    bool     `json:"required"`
	Type        string   `json:"type"`
	Default     any      `json:"default,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Index holds the parsed and validated document for documentation lookup.
type Index struct {
	methods map[string]*MethodDetail
	order   []string
}

// BuildIndex parses raw OpenAPI JSON with kin-openapi and flattens it into
// a searchable method index. Validation problems are logged, not fatal —
// the generated document carries query strings in its path keys, which
// strict validators dislike.
func BuildIndex(ctx context.Context, data []byte) (*Index, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("parsing OpenAPI document: %w", err)
	}

	if err := doc.Validate(ctx); err != nil {
		internal.Errorf("spec validation: %v", err)
	}

	idx := &Index{methods: make(map[string]*MethodDetail)}

	for _, pathItem := range doc.Paths.Map() {
		for _, op := range pathItem.Operations() {
			if op == nil || op.OperationID == "" {
				continue
			}

			module, action, ok := strings.Cut(op.OperationID, "_")
			if !ok {
				module, action = op.OperationID, op.OperationID
			}

			detail := &MethodDetail{
				Name:        module + "." + action,
				Module:      module,
				Action:      action,
				Summary:     op.Summary,
				Description: op.Description,
			}

			for _, pRef := range op.Parameters {
				if pRef.Value == nil {
					continue
				}
				p := pRef.Value
				pi := ParameterInfo{
					Name:        p.Name,
					Required:    p.Required,
					Description: p.Description,
				}
				if p.Schema != nil && p.Schema.Value != nil {
					if types := p.Schema.Value.Type.Slice(); len(types) > 0 {
						pi.Type = types[0]
					}
					pi.Default = p.Schema.Value.Default
					for _, e := range p.Schema.Value.Enum {
						if s, ok := e.(string); ok {
							pi.Enum = append(pi.Enum, s)
						}
					}
				}
				detail.Parameters = append(detail.Parameters, pi)
			}

			if _, exists := idx.methods[detail.Name]; !exists {
				idx.order = append(idx.order, detail.Name)
			}
			idx.methods[detail.Name] = detail
		}
	}

	sort.Strings(idx.order)
	return idx, nil
}

// Count returns the number of indexed methods.
func (idx *Index) Count() int {
	return len(idx.order)
}

// Modules returns each module with its method count.
func (idx *Index) Modules() map[string]int {
	modules := make(map[string]int)
	for _, detail := range idx.methods {
		modules[detail.Module]++
	}
	return modules
}

// Search returns methods whose name, summary or description contains the
// query, case-insensitively, sorted by method name.
func (idx *Index) Search(query string) []MethodSummary {
	query = strings.ToLower(query)

	var results []MethodSummary
	for _, name := range idx.order {
		detail := idx.methods[name]
		if matches(query, detail) {
			results = append(results, MethodSummary{
				Name:    detail.Name,
				Module:  detail.Module,
				Summary: detail.Summary,
			})
		}
	}
	return results
}

func matches(query string, detail *MethodDetail) bool {
	if strings.Contains(strings.ToLower(detail.Name), query) {
		return true
	}
	if strings.Contains(strings.ToLower(detail.Summary), query) {
		return true
	}
	return strings.Contains(strings.ToLower(detail.Description), query)
}

// Get returns the detail for a qualified "Module.action" name. Lookup
// falls back to a suffix match so "VisitsSummary.get" can be found from
// just "get" when unambiguous enough for the first hit.
func (idx *Index) Get(name string) (*MethodDetail, error) {
	if detail, ok := idx.methods[name]; ok {
		return detail, nil
	}
	for _, candidate := range idx.order {
		if strings.HasSuffix(candidate, "."+name) {
			return idx.methods[candidate], nil
		}
	}
	return nil, fmt.Errorf("method %s not found", name)
}
