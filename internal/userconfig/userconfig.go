// Package userconfig provides user configuration management for sitegen.
// Configuration is stored in $SITEGEN_HOME/config.toml and can be modified
// via the `sitegen config` command.
package userconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/tsukumogami/sitegen/internal/config"
)

// KnownProviders lists the provider names accepted in llm.providers.
var KnownProviders = []string{"claude", "gemini"}

// Config represents user-configurable settings.
type Config struct {
	// OutputDir is the default directory for generated components.
	// Empty means the generate command's built-in default.
	OutputDir string `toml:"output_dir,omitempty"`

	LLM LLMConfig `toml:"llm"`

	// Secrets holds API keys keyed by canonical name (e.g. anthropic_api_key).
	// Environment variables take precedence; see package secrets.
	Secrets map[string]string `toml:"secrets,omitempty"`
}

// LLMConfig holds the [llm] section.
type LLMConfig struct {
	// Providers is the preferred provider order. Nil means the factory default.
	Providers []string `toml:"providers,omitempty"`

	ClaudeModel string `toml:"claude_model,omitempty"`
	GeminiModel string `toml:"gemini_model,omitempty"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{}
}

// Load reads the config file and returns the configuration.
// Returns default values if the file doesn't exist.
// Returns an error only for file parsing issues, not missing files.
func Load() (*Config, error) {
	cfg, err := config.DefaultConfig()
	if err != nil {
		return DefaultConfig(), nil // Silently use defaults
	}

	return loadFromPath(cfg.ConfigFile)
}

// loadFromPath reads config from a specific file path (for testing).
func loadFromPath(path string) (*Config, error) {
	userCfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return userCfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if info, statErr := os.Stat(path); statErr == nil && info.Mode().Perm()&0077 != 0 {
		fmt.Fprintf(os.Stderr, "Warning: %s is readable by other users (mode %04o); it may contain API keys. Run: chmod 600 %s\n",
			path, info.Mode().Perm(), path)
	}

	if _, err := toml.Decode(string(data), userCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return userCfg, nil
}

// Save writes the configuration to the config file.
func (c *Config) Save() error {
	cfg, err := config.DefaultConfig()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	return c.saveToPath(cfg.ConfigFile)
}

// saveToPath writes config atomically with 0600 permissions: the encoded
// file is written to a temp file in the same directory and renamed over path.
func (c *Config) saveToPath(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}
	if err := toml.NewEncoder(tmp).Encode(c); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace config file: %w", err)
	}
	return nil
}

// LLMProviders returns the configured provider order, or nil for the default.
func (c *Config) LLMProviders() []string {
	return c.LLM.Providers
}

const secretsPrefix = "secrets."

// Get returns the value of a config key as a string.
// Returns empty string and false if the key doesn't exist or is unset.
// Secrets are addressed as "secrets.<name>".
func (c *Config) Get(key string) (string, bool) {
	key = strings.ToLower(key)
	if name, ok := strings.CutPrefix(key, secretsPrefix); ok {
		val := c.Secrets[name]
		return val, val != ""
	}

	switch key {
	case "output_dir":
		return c.OutputDir, true
	case "llm.providers":
		return strings.Join(c.LLM.Providers, ","), true
	case "llm.claude_model":
		return c.LLM.ClaudeModel, true
	case "llm.gemini_model":
		return c.LLM.GeminiModel, true
	default:
		return "", false
	}
}

// Set updates a config value from a string.
// Returns an error if the key doesn't exist or the value is invalid.
func (c *Config) Set(key, value string) error {
	key = strings.ToLower(key)
	if name, ok := strings.CutPrefix(key, secretsPrefix); ok {
		if name == "" {
			return fmt.Errorf("secret name is required: secrets.<name>")
		}
		if c.Secrets == nil {
			c.Secrets = make(map[string]string)
		}
		c.Secrets[name] = value
		return nil
	}

	switch key {
	case "output_dir":
		c.OutputDir = value
		return nil
	case "llm.providers":
		providers, err := parseProviders(value)
		if err != nil {
			return err
		}
		c.LLM.Providers = providers
		return nil
	case "llm.claude_model":
		c.LLM.ClaudeModel = value
		return nil
	case "llm.gemini_model":
		c.LLM.GeminiModel = value
		return nil
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
}

// parseProviders parses a comma-separated provider list. An empty value
// clears the list.
func parseProviders(value string) ([]string, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	var providers []string
	seen := make(map[string]bool)
	for _, p := range strings.Split(value, ",") {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" || seen[p] {
			continue
		}
		if !isKnownProvider(p) {
			return nil, fmt.Errorf("invalid value for llm.providers: unknown provider %q (valid: %s)",
				p, strings.Join(KnownProviders, ", "))
		}
		seen[p] = true
		providers = append(providers, p)
	}
	return providers, nil
}

func isKnownProvider(name string) bool {
	for _, p := range KnownProviders {
		if p == name {
			return true
		}
	}
	return false
}

// AvailableKeys returns a list of all configurable keys with descriptions.
// Secrets are not listed; they are set as secrets.<name>.
func AvailableKeys() map[string]string {
	return map[string]string{
		"output_dir":       "Default directory for generated components",
		"llm.providers":    "Provider order, comma-separated (claude,gemini)",
		"llm.claude_model": "Claude model ID (empty for the built-in default)",
		"llm.gemini_model": "Gemini model ID (empty for the built-in default)",
	}
}

// SortedKeys returns the AvailableKeys names in display order.
func SortedKeys() []string {
	keys := AvailableKeys()
	names := make([]string, 0, len(keys))
	for k := range keys {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
