package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsukumogami/sitegen/internal/analysis"
	"github.com/tsukumogami/sitegen/internal/prompt"
)

var (
	promptAnalysis string
	promptContent  string
	promptBrand    string
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the generation prompt without calling an LLM",
	Long: `Build the layout generation prompt from a saved analysis, site copy
and brand config, and print it. No network access is needed.

Examples:
  sitegen prompt --analysis analysis.json
  sitegen prompt --analysis analysis.json --content content.yaml --brand brand.toml`,
	Args: cobra.NoArgs,
	Run:  runPrompt,
}

func init() {
	promptCmd.Flags().StringVar(&promptAnalysis, "analysis", "", "Saved analysis JSON (required)")
	promptCmd.Flags().StringVar(&promptContent, "content", defaultContentPath, "Site copy file (.json, .toml, .yaml)")
	promptCmd.Flags().StringVar(&promptBrand, "brand", "", "Brand config file; built-in defaults when empty")
	_ = promptCmd.MarkFlagRequired("analysis")
}

func runPrompt(cmd *cobra.Command, args []string) {
	a, err := analysis.Load(promptAnalysis)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitWithCode(ExitConfig)
	}
	content, err := loadContent(promptContent, cmd.Flags().Changed("content"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitWithCode(ExitConfig)
	}
	b, err := loadBrand(promptBrand)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitWithCode(ExitConfig)
	}

	fmt.Println(prompt.Build(a, content, b))
}
