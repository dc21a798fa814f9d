package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tsukumogami/sitegen/internal/log"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	quietFlag   bool
	verboseFlag bool
	debugFlag   bool

	// globalCtx is canceled on SIGINT/SIGTERM so in-flight LLM calls and
	// page fetches stop promptly.
	globalCtx    context.Context
	globalCancel context.CancelFunc
)

var rootCmd = &cobra.Command{
	Use:   "sitegen",
	Short: "Recreate a reference site's layout as branded React components",
	Long: `sitegen fetches a reference web page, asks an LLM to describe its
structure, and generates React/TypeScript layout components that follow
that structure with your own brand colors, fonts and copy.

Pipeline:
  fetch -> analyze -> build prompt -> generate -> parse -> write

Examples:
  sitegen generate https://example.com -o src/layouts/production
  sitegen analyze https://example.com --save analysis.json
  sitegen prompt --analysis analysis.json --content content.yaml`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Show only errors")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Show informational messages")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Show debug output including raw LLM snippets")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(configCmd)
}

// initLogger installs the default logger at the level chosen by flags and
// environment variables.
func initLogger() {
	log.SetDefault(log.NewText(os.Stderr, determineLogLevel()))
}

// determineLogLevel folds the SITEGEN_QUIET/VERBOSE/DEBUG environment
// variables into the flags. Any explicit flag beats all environment variables.
func determineLogLevel() slog.Level {
	quiet, verbose, debug := quietFlag, verboseFlag, debugFlag
	if !quiet && !verbose && !debug {
		quiet = isTruthy(os.Getenv("SITEGEN_QUIET"))
		verbose = isTruthy(os.Getenv("SITEGEN_VERBOSE"))
		debug = isTruthy(os.Getenv("SITEGEN_DEBUG"))
	}
	return log.LevelFromFlags(quiet, verbose, debug)
}

func isTruthy(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func main() {
	globalCtx, globalCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer globalCancel()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		globalCancel()
		exitWithCode(ExitUsage)
	}
}
