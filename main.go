package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/FGRibreau/mcp-matomo/config"
	"github.com/FGRibreau/mcp-matomo/generator"
	"github.com/FGRibreau/mcp-matomo/internal"
	"github.com/FGRibreau/mcp-matomo/matomo"
	"github.com/FGRibreau/mcp-matomo/openapi"
	"github.com/FGRibreau/mcp-matomo/tools"
)

func main() {
	// Optional .env with MATOMO_URL / MATOMO_TOKEN / MATOMO_SITE_ID.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "mcp-matomo",
		Short:        "Generate an OpenAPI spec from a Matomo instance and serve its API as MCP tools",
		SilenceUsage: true,
	}
	root.AddCommand(newGenerateCmd())
	root.AddCommand(newServeCmd())
	return root
}

// flags collects command line values; only flags the user actually set
// override file config.
type flags struct {
	configPath    string
	url           string
	token         string
	cookies       string
	siteID        string
	date          string
	period        string
	delayMS       int
	fetchExamples bool
	limit         int
	output        string
	verboseOutput bool
	openapiFile   string
	noCache       bool
}

func (f *flags) mergeInto(cmd *cobra.Command, cfg *config.Config) {
	set := cmd.Flags().Changed
	if set("url") {
		cfg.Matomo.URL = f.url
	}
	if set("token") {
		cfg.Matomo.Token = f.token
	}
	if set("cookies") {
		cfg.Matomo.Cookies = f.cookies
	}
	if set("site-id") {
		cfg.Matomo.SiteID = f.siteID
	}
	if set("date") {
		cfg.Generator.Date = f.date
	}
	if set("period") {
		cfg.Generator.Period = f.period
	}
	if set("delay") {
		cfg.Generator.DelayMS = f.delayMS
	}
	if set("fetch-examples") {
		cfg.Generator.FetchExamples = f.fetchExamples
	}
	if set("limit") {
		cfg.Generator.Limit = f.limit
	}
	if set("output") {
		cfg.Output = f.output
	}
	if set("verbose-output") {
		cfg.Generator.VerboseOutput = f.verboseOutput
	}
}

func newClient(cfg *config.Config, noCache bool) (*matomo.Client, error) {
	if cfg.Matomo.URL == "" {
		return nil, fmt.Errorf("no Matomo URL: pass --url, set MATOMO_URL, or configure matomo.url")
	}
	client, err := matomo.NewClient(cfg.Matomo.URL, cfg.Matomo.Token, cfg.Matomo.Cookies)
	if err != nil {
		return nil, err
	}
	if !noCache {
		dir := cfg.CacheDir
		if dir == "" {
			dir = matomo.DefaultCacheDir()
		}
		client.WithCache(matomo.NewCache(dir))
	}
	return client, nil
}

func newGenerateCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Introspect a Matomo instance and write its OpenAPI specification",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(f.configPath)
			if err != nil {
				return err
			}
			f.mergeInto(cmd, cfg)

			client, err := newClient(cfg, f.noCache)
			if err != nil {
				return err
			}

			spec, err := generator.Run(cmd.Context(), client, generator.Config{
				SiteID:        cfg.Matomo.SiteID,
				Date:          cfg.Generator.Date,
				Period:        cfg.Generator.Period,
				Delay:         time.Duration(cfg.Generator.DelayMS) * time.Millisecond,
				FetchExamples: cfg.Generator.FetchExamples,
				Limit:         cfg.Generator.Limit,
				VerboseOutput: cfg.Generator.VerboseOutput,
				Output:        cfg.Output,
			})
			if err != nil {
				return err
			}

			if err := spec.WriteFile(cfg.Output); err != nil {
				return err
			}
			internal.Logf("OpenAPI specification saved to %s", cfg.Output)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.configPath, "config", "", "config file path")
	cmd.Flags().StringVarP(&f.url, "url", "u", "", "Matomo instance URL (e.g. https://matomo.example.com)")
	cmd.Flags().StringVarP(&f.token, "token", "t", "", "Matomo API token (token_auth)")
	cmd.Flags().StringVar(&f.cookies, "cookies", "", `authentication cookies ("MATOMO_SESSID=...")`)
	cmd.Flags().StringVarP(&f.siteID, "site-id", "s", "1", "site ID used for discovery and examples")
	cmd.Flags().StringVar(&f.date, "date", "yesterday", "date used when fetching examples")
	cmd.Flags().StringVar(&f.period, "period", "day", "period used when fetching examples")
	cmd.Flags().IntVar(&f.delayMS, "delay", 100, "delay between API requests in milliseconds")
	cmd.Flags().BoolVar(&f.fetchExamples, "fetch-examples", false, "fetch an example response per method for schema inference")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "maximum number of methods to process (0 = all)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "matomo-openapi.json", "output file for the OpenAPI specification")
	cmd.Flags().BoolVar(&f.verboseOutput, "verbose-output", false, "also write intermediate results next to the output")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "bypass the introspection cache")

	return cmd
}

func newServeCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP stdio server exposing Matomo API methods as tools",
		Long: "Runs an MCP server over stdio. The OpenAPI specification is either\n" +
			"generated at startup by introspecting the instance (--url) or loaded\n" +
			"from a pre-generated file (--openapi).",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(f.configPath)
			if err != nil {
				return err
			}
			f.mergeInto(cmd, cfg)

			ctx := cmd.Context()

			var spec *openapi.Spec
			switch {
			case f.openapiFile != "":
				internal.Logf("loading OpenAPI spec from %s", f.openapiFile)
				spec, err = openapi.LoadFile(f.openapiFile)
				if err != nil {
					return err
				}
				if cfg.Matomo.URL == "" {
					cfg.Matomo.URL = spec.BaseURL()
				}
			case cfg.Matomo.URL != "":
				internal.Logf("introspecting Matomo instance at %s", cfg.Matomo.URL)
				client, err := newClient(cfg, f.noCache)
				if err != nil {
					return err
				}
				spec, err = generator.Run(ctx, client, generator.Config{
					SiteID: cfg.Matomo.SiteID,
					Date:   cfg.Generator.Date,
					Period: cfg.Generator.Period,
					Delay:  time.Duration(cfg.Generator.DelayMS) * time.Millisecond,
					Limit:  cfg.Generator.Limit,
				})
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("either --url or --openapi must be provided")
			}

			internal.Logf("loaded OpenAPI spec: %s v%s", spec.Info.Title, spec.Info.Version)

			client, err := newClient(cfg, true)
			if err != nil {
				return err
			}

			data, err := json.Marshal(spec)
			if err != nil {
				return fmt.Errorf("serializing spec: %w", err)
			}
			idx, err := openapi.BuildIndex(ctx, data)
			if err != nil {
				return err
			}

			s := server.NewMCPServer(
				"mcp-matomo",
				spec.Info.Version,
				server.WithToolCapabilities(true),
				server.WithInstructions(fmt.Sprintf(
					"Matomo Analytics API server for %s (Matomo %s, %d methods). "+
						"Use list_modules and search_api to discover methods, get_method_details "+
						"for parameter documentation, and the per-method tools to query analytics data.",
					cfg.Matomo.URL, spec.Info.Version, idx.Count())),
			)

			tools.RegisterAll(s, client, spec, idx, tools.Options{
				MaxResponseSizeKB: cfg.MaxResponseSizeKB,
			})

			internal.Logf("starting mcp-matomo MCP server (stdio)")
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&f.configPath, "config", "", "config file path")
	cmd.Flags().StringVarP(&f.url, "url", "u", "", "Matomo instance URL; introspected at startup")
	cmd.Flags().StringVar(&f.openapiFile, "openapi", "", "path to a pre-generated OpenAPI JSON specification")
	cmd.Flags().StringVarP(&f.token, "token", "t", "", "Matomo API token (token_auth)")
	cmd.Flags().StringVar(&f.cookies, "cookies", "", `authentication cookies ("MATOMO_SESSID=...")`)
	cmd.Flags().StringVarP(&f.siteID, "site-id", "s", "1", "site ID used for discovery")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "bypass the introspection cache")

	return cmd
}
