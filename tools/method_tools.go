package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/FGRibreau/mcp-matomo/internal"
	"github.com/FGRibreau/mcp-matomo/matomo"
	"github.com/FGRibreau/mcp-matomo/openapi"
)

// registerMethodTools creates one MCP tool per API method in the
// document. Tool names follow the operationId ("VisitsSummary_get").
func registerMethodTools(s *server.MCPServer, client *matomo.Client, spec *openapi.Spec, opts Options) {
	apiTools := spec.ExtractTools()
	internal.Logf("registering %d API method tools", len(apiTools))

	for _, t := range apiTools {
		tool := t
		s.AddTool(
			buildTool(tool),
			func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handleMethodCall(ctx, req, client, tool, opts)
			},
		)
	}
}

// buildTool translates the extracted parameter descriptors into a typed
// MCP input schema.
func buildTool(t openapi.Tool) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(t.Description)}

	for _, p := range t.Parameters {
		var propOpts []mcp.PropertyOption
		if p.Required {
			propOpts = append(propOpts, mcp.Required())
		}
		if p.Description != "" {
			propOpts = append(propOpts, mcp.Description(p.Description))
		}

		switch p.Type {
		case "integer", "number":
			if d, ok := numericDefault(p.Default); ok {
				propOpts = append(propOpts, mcp.DefaultNumber(d))
			}
			opts = append(opts, mcp.WithNumber(p.Name, propOpts...))
		case "boolean":
			if b, ok := p.Default.(bool); ok {
				propOpts = append(propOpts, mcp.DefaultBool(b))
			}
			opts = append(opts, mcp.WithBoolean(p.Name, propOpts...))
		default:
			if len(p.Enum) > 0 {
				propOpts = append(propOpts, mcp.Enum(p.Enum...))
			}
			if s, ok := p.Default.(string); ok {
				propOpts = append(propOpts, mcp.DefaultString(s))
			}
			opts = append(opts, mcp.WithString(p.Name, propOpts...))
		}
	}

	return mcp.NewTool(t.Name, opts...)
}

func numericDefault(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func handleMethodCall(ctx context.Context, req mcp.CallToolRequest, client *matomo.Client, t openapi.Tool, opts Options) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	result, err := client.CallMethod(ctx, t.Module, t.Action, args)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s.%s failed: %v", t.Module, t.Action, err)), nil
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("serializing response: %v", err)), nil
	}

	text := string(data)
	if max := opts.MaxResponseSizeKB * 1024; len(text) > max {
		// Back off to a rune boundary so the cut never splits a
		// multi-byte character.
		cut := max
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + fmt.Sprintf("\n... truncated (%d bytes total). Use filter_limit to reduce the result.", len(data))
	}

	return mcp.NewToolResultText(text), nil
}
