package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tsukumogami/sitegen/internal/analysis"
	"github.com/tsukumogami/sitegen/internal/config"
	"github.com/tsukumogami/sitegen/internal/errmsg"
	"github.com/tsukumogami/sitegen/internal/fetch"
	"github.com/tsukumogami/sitegen/internal/llm"
	"github.com/tsukumogami/sitegen/internal/log"
	"github.com/tsukumogami/sitegen/internal/progress"
	"github.com/tsukumogami/sitegen/internal/userconfig"
)

var (
	analyzeSave     string
	analyzeProvider string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Describe the structure of a reference page",
	Long: `Fetch a reference page and ask the LLM for a structural analysis:
its sections, layout patterns and color usage. The analysis is printed as
JSON, and can be saved for reuse with 'sitegen generate --analysis'.

Redirects follow the same rules as 'sitegen generate'.

Examples:
  sitegen analyze https://example.com
  sitegen analyze https://example.com --save analysis.json`,
	Args: cobra.ExactArgs(1),
	Run:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeSave, "save", "", "Write the analysis JSON to this file instead of stdout")
	analyzeCmd.Flags().StringVar(&analyzeProvider, "provider", "", "LLM provider to try first (claude, gemini)")
}

func runAnalyze(cmd *cobra.Command, args []string) {
	url := args[0]
	errCtx := &errmsg.ErrorContext{URL: url}

	result, usage, err := analyzePage(globalCtx, loadUserConfig(), url)
	exitOnError(err, errCtx)

	if analyzeSave == "" {
		printJSON(result)
		return
	}
	if err := analysis.Save(analyzeSave, result); err != nil {
		printError(err, errCtx)
		exitWithCode(ExitWrite)
	}
	printInfof("Saved analysis of %s (%d sections) to %s\n", url, len(result.Sections), analyzeSave)
	printInfo(usage.String())
}

// analyzePage fetches url and asks the LLM for its structure. Providers are
// closed before it returns.
func analyzePage(parent context.Context, userCfg *userconfig.Config, url string) (*analysis.StructuralAnalysis, llm.Usage, error) {
	ctx, cancel := context.WithTimeout(parent, config.GetFetchTimeout()+config.GetAPITimeout())
	defer cancel()

	providers, err := openProviders(ctx, userCfg, analyzeProvider)
	if err != nil {
		return nil, llm.Usage{}, err
	}
	defer providers.Close()

	logger := log.Default()
	fetcher := fetch.New(
		fetch.WithTimeout(config.GetFetchTimeout()),
		fetch.WithMaxBodyBytes(config.GetMaxBodyBytes()),
		fetch.WithLogger(logger),
	)
	analyzer := analysis.New(providers, analysis.WithLogger(logger))
	reporter := progress.NewStageReporter(os.Stderr, quietFlag)

	page, err := timed(reporter, "Fetching page", func() (*fetch.Page, error) {
		return fetcher.Fetch(ctx, url)
	})
	if err != nil {
		return nil, llm.Usage{}, err
	}

	result, err := timed(reporter, "Analyzing structure", func() (*analysis.StructuralAnalysis, error) {
		return analyzer.Analyze(ctx, page)
	})
	return result, analyzer.Usage(), err
}

var timeNow = time.Now

// timed runs fn between reporter Start and Done/Fail calls.
func timed[T any](r *progress.StageReporter, stage string, fn func() (T, error)) (T, error) {
	r.Start(stage)
	start := timeNow()
	v, err := fn()
	if err != nil {
		r.Fail(stage, err)
		return v, err
	}
	r.Done(stage, timeNow().Sub(start))
	return v, nil
}
