package openapi

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FGRibreau/mcp-matomo/parser"
)

func buildTestIndex(t *testing.T) *Index {
	t.Helper()

	methods := []parser.Method{
		parser.Build(parser.ReportMethod{Module: "VisitsSummary", Action: "get", Documentation: "Visit counts over time"}, nil),
		parser.Build(parser.ReportMethod{Module: "Actions", Action: "getPageUrls", Documentation: "Top page URLs"}, nil),
		parser.Build(parser.ReportMethod{Module: "Referrers", Action: "getKeywords"}, nil),
	}
	spec := Generate(methods, "https://matomo.example.com", "5.1.0")

	data, err := json.Marshal(spec)
	require.NoError(t, err)

	idx, err := BuildIndex(context.Background(), data)
	require.NoError(t, err)
	return idx
}

func TestBuildIndexCount(t *testing.T) {
	idx := buildTestIndex(t)
	assert.Equal(t, 3, idx.Count())
}

func TestIndexModules(t *testing.T) {
	idx := buildTestIndex(t)
	modules := idx.Modules()
	assert.Equal(t, map[string]int{"VisitsSummary": 1, "Actions": 1, "Referrers": 1}, modules)
}

func TestIndexSearch(t *testing.T) {
	idx := buildTestIndex(t)

	results := idx.Search("page urls")
	require.Len(t, results, 1)
	assert.Equal(t, "Actions.getPageUrls", results[0].Name)

	// Name matching is case-insensitive.
	results = idx.Search("visitssummary")
	require.Len(t, results, 1)
	assert.Equal(t, "VisitsSummary.get", results[0].Name)

	assert.Empty(t, idx.Search("no such thing"))
}

func TestIndexGet(t *testing.T) {
	idx := buildTestIndex(t)

	detail, err := idx.Get("VisitsSummary.get")
	require.NoError(t, err)
	assert.Equal(t, "VisitsSummary", detail.Module)
	assert.Equal(t, "get", detail.Action)
	assert.Equal(t, "Visit counts over time", detail.Description)
	require.NotEmpty(t, detail.Parameters)

	byName := map[string]ParameterInfo{}
	for _, p := range detail.Parameters {
		byName[p.Name] = p
	}
	assert.Equal(t, "integer", byName["idSite"].Type)
	assert.Equal(t, []string{"day", "week", "month", "year", "range"}, byName["period"].Enum)
}

func TestIndexGetSuffixFallback(t *testing.T) {
	idx := buildTestIndex(t)

	detail, err := idx.Get("getKeywords")
	require.NoError(t, err)
	assert.Equal(t, "Referrers.getKeywords", detail.Name)

	_, err = idx.Get("Missing.method")
	assert.Error(t, err)
}

func TestBuildIndexRejectsGarbage(t *testing.T) {
	_, err := BuildIndex(context.Background(), []byte("not json at all {{{"))
	assert.Error(t, err)
}
