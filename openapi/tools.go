package openapi

import (
	"fmt"
	"strings"
)

// Tool is a callable API method extracted from the document, shaped for
// the MCP front end.
type Tool struct {
	Name        string
	Module      string
	Action      string
	Description string
	Parameters  []ToolParameter
}

// ToolParameter carries everything the front end needs to declare and
// validate one argument.
type ToolParameter struct {
	Name        string
	Description string
	Required    bool
	Type        string
	Default     any
	Enum        []string
}

// ExtractTools flattens the document into tools, one per path, in path
// order. GET is preferred, POST is the fallback. The operationId encodes
// "<module>_<action>"; an id without an underscore falls back to using the
// whole id for both parts.
func (s *Spec) ExtractTools() []Tool {
	var tools []Tool

	for _, key := range s.Paths.Keys() {
		item := s.Paths.Get(key)
		op := item.Get
		if op == nil {
			op = item.Post
		}
		if op == nil {
			continue
		}

		module, action, ok := strings.Cut(op.OperationID, "_")
		if !ok {
			module, action = op.OperationID, op.OperationID
		}

		description := op.Description
		if description == "" {
			description = op.Summary
		}
		if description == "" {
			description = fmt.Sprintf("Call %s.%s", module, action)
		}

		params := make([]ToolParameter, 0, len(op.Parameters))
		for _, p := range op.Parameters {
			params = append(params, ToolParameter{
				Name:        p.Name,
				Description: p.Description,
				Required:    p.Required,
				Type:        p.Schema.Type,
				Default:     p.Schema.Default,
				Enum:        p.Schema.Enum,
			})
		}

		tools = append(tools, Tool{
			Name:        op.OperationID,
			Module:      module,
			Action:      action,
			Description: description,
			Parameters:  params,
		})
	}

	return tools
}
