// Package generator drives the introspection pipeline: discover the API
// methods of a Matomo instance, scrape parameter signatures from its
// reference page, optionally sample live responses, and assemble the
// OpenAPI document.
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/FGRibreau/mcp-matomo/internal"
	"github.com/FGRibreau/mcp-matomo/matomo"
	"github.com/FGRibreau/mcp-matomo/openapi"
	"github.com/FGRibreau/mcp-matomo/parser"
	"github.com/FGRibreau/mcp-matomo/schema"
)

// Config controls one introspection run.
type Config struct {
	SiteID        string
	Date          string
	Period        string
	Delay         time.Duration
	FetchExamples bool
	Limit         int
	VerboseOutput bool
	Output        string
}

// Run executes the pipeline against the given client and returns the
// assembled document. Only a malformed discovery payload is fatal;
// missing reference text or failed example fetches degrade to methods
// with common parameters and no response schema.
func Run(ctx context.Context, client *matomo.Client, cfg Config) (*openapi.Spec, error) {
	version := client.FetchVersion(ctx)
	internal.Logf("Matomo version: %s", version)

	internal.Logf("fetching API method list for site %s", cfg.SiteID)
	payload, err := client.FetchMethodList(ctx, cfg.SiteID)
	if err != nil {
		return nil, fmt.Errorf("fetching method list: %w", err)
	}
	if cfg.VerboseOutput {
		writeSidecar(cfg.Output, "methods", payload)
	}

	discovered, err := parser.ParseMethodList(payload)
	if err != nil {
		return nil, err
	}

	if cfg.Limit > 0 && len(discovered) > cfg.Limit {
		discovered = discovered[:cfg.Limit]
	}

	meta := fetchMetadata(ctx, client)
	if cfg.VerboseOutput && len(meta) > 0 {
		writeSidecar(cfg.Output, "metadata", meta)
	}

	methods := make([]parser.Method, 0, len(discovered))
	for i, rm := range discovered {
		internal.Logf("[%d/%d] processing %s.%s", i+1, len(discovered), rm.Module, rm.Action)

		m := parser.Build(rm, meta)

		if cfg.FetchExamples {
			if err := sleep(ctx, cfg.Delay); err != nil {
				return nil, err
			}
			example, err := client.FetchExample(ctx, rm.Module, rm.Action, map[string]string{
				"idSite": cfg.SiteID,
				"date":   cfg.Date,
				"period": cfg.Period,
			})
			if err != nil {
				internal.Errorf("fetching example for %s.%s: %v", rm.Module, rm.Action, err)
			} else if example != nil {
				m.ExampleResponse = example
				m.ResponseSchema = schema.Infer(example)
			}
		}

		methods = append(methods, m)
	}

	if cfg.VerboseOutput {
		writeSidecar(cfg.Output, "methods-detailed", methods)
	}

	spec := openapi.Generate(methods, client.BaseURL(), version)
	internal.Logf("generated spec: %d paths across %d modules", spec.Paths.Len(), len(spec.Tags))
	return spec, nil
}

// fetchMetadata scrapes the reference page. Failure means no hints, not
// no document.
func fetchMetadata(ctx context.Context, client *matomo.Client) map[string]parser.MethodMetadata {
	reference, err := client.FetchAPIReference(ctx)
	if err != nil {
		internal.Errorf("fetching API reference: %v", err)
		return nil
	}
	return parser.ParseAPIReference(reference)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// writeSidecar saves intermediate pipeline output next to the main
// document, e.g. matomo-openapi.methods.json.
func writeSidecar(output, suffix string, v any) {
	if output == "" {
		return
	}
	path := strings.TrimSuffix(output, ".json") + "." + suffix + ".json"
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		internal.Errorf("serializing %s: %v", suffix, err)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		internal.Errorf("writing %s: %v", path, err)
		return
	}
	internal.Logf("saved %s", path)
}
