package openapi

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FGRibreau/mcp-matomo/parser"
)

func TestPathsPreserveInsertionOrder(t *testing.T) {
	p := NewPaths()
	p.Set("/z", &PathItem{Get: &Operation{OperationID: "Z_op"}})
	p.Set("/a", &PathItem{Get: &Operation{OperationID: "A_op"}})
	p.Set("/m", &PathItem{Get: &Operation{OperationID: "M_op"}})

	data, err := json.Marshal(p)
	require.NoError(t, err)

	s := string(data)
	assert.Less(t, strings.Index(s, "/z"), strings.Index(s, "/a"))
	assert.Less(t, strings.Index(s, "/a"), strings.Index(s, "/m"))
}

func TestPathsSetOverwritesInPlace(t *testing.T) {
	p := NewPaths()
	p.Set("/a", &PathItem{Get: &Operation{OperationID: "first"}})
	p.Set("/b", &PathItem{Get: &Operation{OperationID: "b"}})
	p.Set("/a", &PathItem{Get: &Operation{OperationID: "second"}})

	assert.Equal(t, 2, p.Len())
	assert.Equal(t, []string{"/a", "/b"}, p.Keys())
	assert.Equal(t, "second", p.Get("/a").Get.OperationID)
}

func TestPathsJSONRoundTrip(t *testing.T) {
	p := NewPaths()
	p.Set("/b", &PathItem{Get: &Operation{OperationID: "B_op", Responses: map[string]Response{"200": {Description: "ok"}}}})
	p.Set("/a", &PathItem{Post: &Operation{OperationID: "A_op", Responses: map[string]Response{"200": {Description: "ok"}}}})

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var back Paths
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []string{"/b", "/a"}, back.Keys())
	require.NotNil(t, back.Get("/a").Post)
	assert.Equal(t, "A_op", back.Get("/a").Post.OperationID)
}

func TestWriteAndLoadFile(t *testing.T) {
	methods := []parser.Method{
		parser.Build(parser.ReportMethod{Module: "VisitsSummary", Action: "get"}, nil),
		parser.Build(parser.ReportMethod{Module: "Actions", Action: "getPageUrls"}, nil),
	}
	spec := Generate(methods, "https://matomo.example.com", "5.1.0")

	path := filepath.Join(t.TempDir(), "matomo-openapi.json")
	require.NoError(t, spec.WriteFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, spec.OpenAPI, loaded.OpenAPI)
	assert.Equal(t, spec.Info.Title, loaded.Info.Title)
	assert.Equal(t, spec.Paths.Keys(), loaded.Paths.Keys())
	assert.Len(t, loaded.Tags, 2)
	require.NotNil(t, loaded.Components)
	assert.Contains(t, loaded.Components.SecuritySchemes, "token_auth")
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestSerializedTopLevelKeys(t *testing.T) {
	spec := Generate(nil, "https://matomo.example.com", "5.1.0")
	data, err := json.Marshal(spec)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"openapi", "info", "servers", "paths", "components"} {
		assert.Contains(t, raw, key)
	}
}
