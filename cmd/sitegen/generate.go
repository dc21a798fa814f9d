package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tsukumogami/sitegen/internal/analysis"
	"github.com/tsukumogami/sitegen/internal/config"
	"github.com/tsukumogami/sitegen/internal/errmsg"
	"github.com/tsukumogami/sitegen/internal/fetch"
	"github.com/tsukumogami/sitegen/internal/generate"
	"github.com/tsukumogami/sitegen/internal/log"
	"github.com/tsukumogami/sitegen/internal/pipeline"
	"github.com/tsukumogami/sitegen/internal/progress"
	"github.com/tsukumogami/sitegen/internal/userconfig"
)

var (
	generateOutput   string
	generateContent  string
	generateBrand    string
	generateAnalysis string
	generateProvider string
	generateDryRun   bool
	generateSaveRun  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [url]",
	Short: "Generate layout components from a reference page",
	Long: `Fetch a reference page, analyze its structure, and generate React
components that recreate that structure with your branding.

The URL may be omitted when --analysis supplies a saved analysis; the fetch
and analyze stages are then skipped.

Existing files with the same names are overwritten. Nothing is written
unless the LLM response contains at least one usable component.

Redirects are followed unless they downgrade https to http or lead to an
internal network address. The URL you pass is fetched as given, so a local
development server can serve as the reference page.

Examples:
  sitegen generate https://example.com
  sitegen generate https://example.com -o site/src/layouts --brand brand.toml
  sitegen generate --analysis analysis.json --content content.yaml
  sitegen generate https://example.com --dry-run`,
	Args: cobra.MaximumNArgs(1),
	Run:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Directory for generated components (default: output_dir setting or "+defaultOutputDir+")")
	generateCmd.Flags().StringVar(&generateContent, "content", defaultContentPath, "Site copy file (.json, .toml, .yaml)")
	generateCmd.Flags().StringVar(&generateBrand, "brand", "", "Brand config file (.json, .toml, .yaml); built-in defaults when empty")
	generateCmd.Flags().StringVar(&generateAnalysis, "analysis", "", "Use a saved analysis instead of fetching and analyzing")
	generateCmd.Flags().StringVar(&generateProvider, "provider", "", "LLM provider to try first (claude, gemini)")
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "Parse the response but do not write files")
	generateCmd.Flags().BoolVar(&generateSaveRun, "save-run", false, "Save the analysis and prompt under $SITEGEN_HOME/runs/<run-id>")
}

func runGenerate(cmd *cobra.Command, args []string) {
	req := pipeline.Request{DryRun: generateDryRun}
	if len(args) == 1 {
		req.URL = args[0]
	}
	if req.URL == "" && generateAnalysis == "" {
		fmt.Fprintln(os.Stderr, "Error: a URL or --analysis is required")
		exitWithCode(ExitUsage)
	}

	userCfg := loadUserConfig()
	req.OutputDir = firstNonEmpty(generateOutput, userCfg.OutputDir, defaultOutputDir)
	errCtx := &errmsg.ErrorContext{URL: req.URL, OutputDir: req.OutputDir}

	var err error
	req.Content, err = loadContent(generateContent, cmd.Flags().Changed("content"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitWithCode(ExitConfig)
	}
	req.Brand, err = loadBrand(generateBrand)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitWithCode(ExitConfig)
	}
	if generateAnalysis != "" {
		req.Analysis, err = analysis.Load(generateAnalysis)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitWithCode(ExitConfig)
		}
		errCtx.URL = req.Analysis.URL
	}

	if req.URL != "" {
		printInfof("Cloning layout of %s\n", req.URL)
	} else {
		printInfof("Generating from saved analysis of %s\n", req.Analysis.URL)
	}

	res, err := generateLayouts(globalCtx, userCfg, req)
	exitOnError(err, errCtx)

	printResult(res, req)
}

// generateLayouts opens the providers and runs the pipeline. It returns
// rather than exiting so the providers are closed on every path.
func generateLayouts(parent context.Context, userCfg *userconfig.Config, req pipeline.Request) (*pipeline.Result, error) {
	// One budget covers the fetch plus both LLM calls.
	ctx, cancel := context.WithTimeout(parent, config.GetFetchTimeout()+2*config.GetAPITimeout())
	defer cancel()

	providers, err := openProviders(ctx, userCfg, generateProvider)
	if err != nil {
		return nil, err
	}
	defer providers.Close()

	logger := log.Default()
	p := pipeline.New(
		fetch.New(
			fetch.WithTimeout(config.GetFetchTimeout()),
			fetch.WithMaxBodyBytes(config.GetMaxBodyBytes()),
			fetch.WithLogger(logger),
		),
		analysis.New(providers, analysis.WithLogger(logger)),
		generate.New(providers, generate.WithLogger(logger)),
		pipeline.WithReporter(progress.NewStageReporter(os.Stderr, quietFlag)),
		pipeline.WithLogger(logger),
	)

	res, err := p.Run(ctx, req)
	if generateSaveRun && res != nil {
		saveRun(res)
	}
	return res, err
}

func printResult(res *pipeline.Result, req pipeline.Request) {
	if req.DryRun {
		printInfof("\nParsed %d components (dry run, nothing written):\n", len(res.Artifacts))
		for _, name := range res.Artifacts.Names() {
			printInfof("  %s (%d bytes)\n", name, len(res.Artifacts[name]))
		}
	} else {
		printInfof("\nWrote %d components to %s:\n", len(res.Written), req.OutputDir)
		for _, path := range res.Written {
			printInfo("  " + path)
		}
	}

	for _, r := range res.Rejections {
		printInfof("  skipped %s: %s\n", r.Key, r.Reason)
	}
	printInfof("\n%s, run %s in %s\n", res.Usage.String(), res.RunID, progress.FormatElapsed(res.Duration))
}

// saveRun stores the analysis and prompt of a run for later inspection or
// reuse with --analysis.
func saveRun(res *pipeline.Result) {
	cfg, err := config.DefaultConfig()
	if err != nil {
		log.Default().Warn("cannot save run", "error", err)
		return
	}
	dir := cfg.RunDir(res.RunID)

	if res.Analysis != nil {
		if err := analysis.Save(filepath.Join(dir, "analysis.json"), res.Analysis); err != nil {
			log.Default().Warn("cannot save run analysis", "error", err)
			return
		}
	}
	if res.Prompt != "" {
		if err := os.MkdirAll(dir, 0755); err == nil {
			err = os.WriteFile(filepath.Join(dir, "prompt.md"), []byte(res.Prompt), 0644)
		}
		if err != nil {
			log.Default().Warn("cannot save run prompt", "error", err)
			return
		}
	}
	printInfof("Saved run to %s\n", dir)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
