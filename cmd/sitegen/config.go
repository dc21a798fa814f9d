package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsukumogami/sitegen/internal/secrets"
	"github.com/tsukumogami/sitegen/internal/userconfig"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage sitegen configuration",
	Long: `Manage sitegen configuration settings.

Configuration is stored in $SITEGEN_HOME/config.toml (default ~/.sitegen).

Available settings:
  output_dir         Default directory for generated components
  llm.providers      Provider order, comma-separated (claude,gemini)
  llm.claude_model   Claude model ID
  llm.gemini_model   Gemini model ID
  secrets.<name>     API keys (anthropic_api_key, google_api_key)

Examples:
  sitegen config get llm.providers
  sitegen config set llm.providers gemini,claude
  sitegen config set secrets.anthropic_api_key sk-ant-...`,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]

		cfg, err := userconfig.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			exitWithCode(ExitGeneral)
		}

		value, ok := cfg.Get(key)
		if !ok {
			fmt.Fprintf(os.Stderr, "Unknown or unset config key: %s\n", key)
			fmt.Fprintf(os.Stderr, "\nAvailable keys:\n")
			printAvailableKeys()
			exitWithCode(ExitUsage)
		}

		fmt.Println(value)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]
		value := args[1]

		cfg, err := userconfig.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			exitWithCode(ExitGeneral)
		}

		if err := cfg.Set(key, value); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintf(os.Stderr, "\nAvailable keys:\n")
			printAvailableKeys()
			exitWithCode(ExitUsage)
		}

		if err := cfg.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
			exitWithCode(ExitGeneral)
		}

		if isSecretKey(key) {
			fmt.Printf("%s = (set)\n", key)
			return
		}
		fmt.Printf("%s = %s\n", key, value)
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configuration values and secret status",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := userconfig.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			exitWithCode(ExitGeneral)
		}

		for _, k := range userconfig.SortedKeys() {
			value, _ := cfg.Get(k)
			if value == "" {
				value = "(default)"
			}
			fmt.Printf("%-18s %s\n", k, value)
		}

		fmt.Println()
		resolver := secrets.NewResolver(cfg)
		for _, key := range secrets.KnownKeys() {
			status := "not set"
			if _, src, err := resolver.Lookup(key.Name); err == nil {
				status = "set (" + src.String() + ")"
			}
			fmt.Printf("secrets.%-18s %s\n", key.Name, status)
		}
	},
}

// isSecretKey reports whether key addresses the [secrets] table.
func isSecretKey(key string) bool {
	const prefix = "secrets."
	return len(key) > len(prefix) && strings.EqualFold(key[:len(prefix)], prefix)
}

func printAvailableKeys() {
	keys := userconfig.AvailableKeys()
	for _, k := range userconfig.SortedKeys() {
		fmt.Fprintf(os.Stderr, "  %s - %s\n", k, keys[k])
	}
	fmt.Fprintf(os.Stderr, "  secrets.<name> - API key (%s, %s)\n", secrets.AnthropicAPIKey, secrets.GoogleAPIKey)
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
}
