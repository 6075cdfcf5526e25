// Package tools registers the MCP tool surface: one generated tool per
// Matomo API method plus documentation-browsing helpers.
package tools

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/FGRibreau/mcp-matomo/matomo"
	"github.com/FGRibreau/mcp-matomo/openapi"
)

// Options tunes tool behavior.
type Options struct {
	// MaxResponseSizeKB caps the pretty-printed JSON returned by a
	// method call; larger payloads are truncated with a note.
	MaxResponseSizeKB int
}

// RegisterAll wires every tool into the server.
func RegisterAll(s *server.MCPServer, client *matomo.Client, spec *openapi.Spec, idx *openapi.Index, opts Options) {
	if opts.MaxResponseSizeKB <= 0 {
		opts.MaxResponseSizeKB = 50
	}
	registerDocTools(s, idx)
	registerMethodTools(s, client, spec, opts)
}
