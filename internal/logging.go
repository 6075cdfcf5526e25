// Package internal holds the process-wide logger. Everything goes to
// stderr: stdout belongs to the MCP stdio transport.
package internal

import (
	"fmt"
	"log"
	"os"
)

var logger = log.New(os.Stderr, "mcp-matomo ", log.LstdFlags|log.Lmsgprefix)

// Logf writes an informational message.
func Logf(format string, args ...any) {
	logger.Output(2, fmt.Sprintf(format, args...))
}

// Errorf writes an error-level message.
func Errorf(format string, args ...any) {
	logger.Output(2, "ERROR: "+fmt.Sprintf(format, args...))
}
