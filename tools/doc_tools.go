package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/FGRibreau/mcp-matomo/openapi"
)

func registerDocTools(s *server.MCPServer, idx *openapi.Index) {
	s.AddTool(
		mcp.NewTool("list_modules",
			mcp.WithDescription("List all Matomo API modules with their method counts"),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListModules(ctx, idx)
		},
	)

	s.AddTool(
		mcp.NewTool("search_api",
			mcp.WithDescription("Full-text search across the Matomo API. Matches method names, summaries, and descriptions."),
			mcp.WithString("query", mcp.Required(), mcp.Description("Search query")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			query := mcp.ParseString(req, "query", "")
			return handleSearchAPI(ctx, idx, query)
		},
	)

	s.AddTool(
		mcp.NewTool("get_method_details",
			mcp.WithDescription("Get full documentation for one API method including its parameters, types, defaults, and enums"),
			mcp.WithString("method", mcp.Required(), mcp.Description("Qualified method name (e.g. VisitsSummary.get)")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			method := mcp.ParseString(req, "method", "")
			return handleGetMethodDetails(ctx, idx, method)
		},
	)
}

func handleListModules(_ context.Context, idx *openapi.Index) (*mcp.CallToolResult, error) {
	modules := idx.Modules()

	names := make([]string, 0, len(modules))
	for name := range modules {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Matomo API modules (%d methods total)\n\n", idx.Count()))
	for _, name := range names {
		sb.WriteString(fmt.Sprintf("- %s (%d methods)\n", name, modules[name]))
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleSearchAPI(_ context.Context, idx *openapi.Index, query string) (*mcp.CallToolResult, error) {
	if query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	results := idx.Search(query)
	if len(results) == 0 {
		return mcp.NewToolResultText("No results found."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Search results for %q (%d matches)\n\n", query, len(results)))
	for _, r := range results {
		sb.WriteString(fmt.Sprintf("- %s", r.Name))
		if r.Summary != "" && r.Summary != r.Name {
			sb.WriteString(" — " + r.Summary)
		}
		sb.WriteString("\n")
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleGetMethodDetails(_ context.Context, idx *openapi.Index, method string) (*mcp.CallToolResult, error) {
	if method == "" {
		return mcp.NewToolResultError("method is required"), nil
	}

	detail, err := idx.Get(method)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, _ := json.MarshalIndent(detail, "", "  ")
	return mcp.NewToolResultText(string(data)), nil
}
