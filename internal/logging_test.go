package internal

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogfAndErrorf(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(os.Stderr)

	Logf("processing %d methods", 7)
	Errorf("fetch failed: %s", "timeout")

	out := buf.String()
	assert.Contains(t, out, "mcp-matomo processing 7 methods")
	assert.Contains(t, out, "mcp-matomo ERROR: fetch failed: timeout")
}
