package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tsukumogami/sitegen/internal/brand"
	"github.com/tsukumogami/sitegen/internal/errmsg"
	"github.com/tsukumogami/sitegen/internal/llm"
	"github.com/tsukumogami/sitegen/internal/log"
	"github.com/tsukumogami/sitegen/internal/secrets"
	"github.com/tsukumogami/sitegen/internal/userconfig"
)

// defaultContentPath is where the site copy lives in a standard project.
const defaultContentPath = "src/content/middle-coast.json"

// defaultOutputDir is the production layouts folder of a standard project.
const defaultOutputDir = "src/layouts/production"

// printInfo prints an informational message unless quiet mode is enabled
func printInfo(a ...interface{}) {
	if !quietFlag {
		fmt.Println(a...)
	}
}

// printInfof prints a formatted informational message unless quiet mode is enabled
func printInfof(format string, a ...interface{}) {
	if !quietFlag {
		fmt.Printf(format, a...)
	}
}

// printJSON marshals the given value to JSON and prints it to stdout
func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		exitWithCode(ExitGeneral)
	}
}

// printError prints an error to stderr with suggestions if available.
func printError(err error, ctx *errmsg.ErrorContext) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", errmsg.Format(err, ctx))
}

// exitOnError prints err and exits with the code for its failure mode.
// It returns normally when err is nil.
func exitOnError(err error, ctx *errmsg.ErrorContext) {
	if err == nil {
		return
	}
	printError(err, ctx)
	exitWithCode(exitCodeFor(err))
}

// loadUserConfig loads config.toml, falling back to defaults with a warning.
func loadUserConfig() *userconfig.Config {
	cfg, err := userconfig.Load()
	if err != nil {
		log.Default().Warn("ignoring unreadable config file", "error", err)
		return userconfig.DefaultConfig()
	}
	return cfg
}

// loadContent reads the site copy. An explicit path must exist; the default
// path is only used when present.
func loadContent(path string, explicit bool) (*brand.Content, error) {
	if !explicit {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("no content file: pass --content or create %s", path)
		}
	}
	return brand.LoadContent(path)
}

// loadBrand reads the brand config, or returns the built-in defaults when
// path is empty.
func loadBrand(path string) (*brand.Config, error) {
	if path == "" {
		return brand.Default(), nil
	}
	return brand.LoadConfig(path)
}

// providerSet is the LLM selector a command holds for its lifetime.
type providerSet interface {
	llm.Selector
	Close() error
}

// openProviders is replaced in tests.
var openProviders = func(ctx context.Context, cfg *userconfig.Config, provider string) (providerSet, error) {
	return newProviderFactory(ctx, cfg, provider)
}

// newProviderFactory builds the LLM factory from credentials resolved once
// here. provider, when set, is tried first.
func newProviderFactory(ctx context.Context, cfg *userconfig.Config, provider string) (*llm.Factory, error) {
	opts := []llm.FactoryOption{
		llm.WithProviderOrder(cfg.LLMProviders()),
		llm.WithModels(cfg.LLM.ClaudeModel, cfg.LLM.GeminiModel),
	}
	if provider != "" {
		opts = append(opts, llm.WithPrimaryProvider(provider))
	}

	factory, err := llm.NewFactory(ctx, secrets.Credentials(cfg), opts...)
	if err != nil {
		return nil, err
	}
	if provider != "" && !factory.HasProvider(provider) {
		factory.Close()
		return nil, &llm.ConfigError{Provider: provider, Setting: providerKey(provider)}
	}
	return factory, nil
}

func providerKey(provider string) string {
	if provider == "gemini" {
		return secrets.GoogleAPIKey
	}
	return secrets.AnthropicAPIKey
}
