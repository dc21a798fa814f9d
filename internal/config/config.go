package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// EnvSitegenHome is the environment variable to override the default sitegen home directory
	EnvSitegenHome = "SITEGEN_HOME"

	// EnvAPITimeout is the environment variable to configure LLM API request timeout
	EnvAPITimeout = "SITEGEN_API_TIMEOUT"

	// EnvFetchTimeout is the environment variable to configure the reference page fetch timeout
	EnvFetchTimeout = "SITEGEN_FETCH_TIMEOUT"

	// EnvMaxBodyBytes is the environment variable to configure the maximum reference page size
	EnvMaxBodyBytes = "SITEGEN_MAX_BODY_BYTES"

	// DefaultAPITimeout is the default timeout for LLM requests (5 minutes).
	// Layout generation routinely produces several thousand output tokens.
	DefaultAPITimeout = 5 * time.Minute

	// DefaultFetchTimeout is the default timeout for fetching the reference page (30 seconds)
	DefaultFetchTimeout = 30 * time.Second

	// DefaultMaxBodyBytes is the default cap on a reference page body (10MB)
	DefaultMaxBodyBytes = 10 * 1024 * 1024
)

// GetAPITimeout returns the configured LLM timeout from SITEGEN_API_TIMEOUT.
// If not set or invalid, returns DefaultAPITimeout.
// Accepts duration strings like "90s", "5m", "2m30s".
func GetAPITimeout() time.Duration {
	return durationFromEnv(EnvAPITimeout, DefaultAPITimeout, 10*time.Second, 30*time.Minute)
}

// GetFetchTimeout returns the configured fetch timeout from SITEGEN_FETCH_TIMEOUT.
// If not set or invalid, returns DefaultFetchTimeout.
func GetFetchTimeout() time.Duration {
	return durationFromEnv(EnvFetchTimeout, DefaultFetchTimeout, 1*time.Second, 10*time.Minute)
}

// durationFromEnv parses a duration variable and clamps it to [min, max],
// warning on stderr when the value is unusable.
func durationFromEnv(name string, def, min, max time.Duration) time.Duration {
	envValue := os.Getenv(name)
	if envValue == "" {
		return def
	}

	duration, err := time.ParseDuration(envValue)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid %s value %q, using default %v\n",
			name, envValue, def)
		return def
	}

	if duration < min {
		fmt.Fprintf(os.Stderr, "Warning: %s too low (%v), using minimum %v\n",
			name, duration, min)
		return min
	}
	if duration > max {
		fmt.Fprintf(os.Stderr, "Warning: %s too high (%v), using maximum %v\n",
			name, duration, max)
		return max
	}

	return duration
}

// ParseByteSize parses a human-readable byte size string into bytes.
// Accepts formats: plain numbers (52428800), KB/K (50K, 50KB), MB/M (50M, 50MB), GB/G (1G, 1GB).
// Case-insensitive. Returns an error for invalid formats.
func ParseByteSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size string")
	}

	s = strings.ToUpper(s)

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}

	// Split numeric prefix from unit suffix
	split := strings.IndexFunc(s, func(c rune) bool {
		return (c < '0' || c > '9') && c != '.'
	})
	if split == 0 {
		return 0, fmt.Errorf("invalid size format: %q", s)
	}
	if split < 0 {
		split = len(s)
	}
	numStr, suffix := s[:split], strings.TrimSpace(s[split:])

	num, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size number: %q", numStr)
	}

	var multiplier float64
	switch suffix {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	case "G", "GB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("invalid size suffix: %q", suffix)
	}

	return int64(num * multiplier), nil
}

// GetMaxBodyBytes returns the configured page size cap from SITEGEN_MAX_BODY_BYTES.
// If not set or invalid, returns DefaultMaxBodyBytes (10MB).
// Accepts human-readable sizes like "5MB", "512K", "1048576".
func GetMaxBodyBytes() int64 {
	envValue := os.Getenv(EnvMaxBodyBytes)
	if envValue == "" {
		return DefaultMaxBodyBytes
	}

	size, err := ParseByteSize(envValue)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid %s value %q, using default %dMB\n",
			EnvMaxBodyBytes, envValue, DefaultMaxBodyBytes/(1024*1024))
		return DefaultMaxBodyBytes
	}

	// Validate reasonable range (64KB to 100MB)
	minSize := int64(64 * 1024)
	maxSize := int64(100 * 1024 * 1024)

	if size < minSize {
		fmt.Fprintf(os.Stderr, "Warning: %s too low (%d bytes), using minimum 64KB\n",
			EnvMaxBodyBytes, size)
		return minSize
	}
	if size > maxSize {
		fmt.Fprintf(os.Stderr, "Warning: %s too high (%d bytes), using maximum 100MB\n",
			EnvMaxBodyBytes, size)
		return maxSize
	}

	return size
}

// Config holds sitegen's on-disk locations.
type Config struct {
	HomeDir    string // $SITEGEN_HOME
	RunsDir    string // $SITEGEN_HOME/runs (saved analyses and raw responses)
	ConfigFile string // $SITEGEN_HOME/config.toml
}

// DefaultConfig returns the default configuration
func DefaultConfig() (*Config, error) {
	home := os.Getenv(EnvSitegenHome)
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		home = filepath.Join(userHome, ".sitegen")
	}

	return &Config{
		HomeDir:    home,
		RunsDir:    filepath.Join(home, "runs"),
		ConfigFile: filepath.Join(home, "config.toml"),
	}, nil
}

// EnsureDirectories creates all necessary directories
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.HomeDir, c.RunsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// RunDir returns the directory holding artifacts of one pipeline run.
func (c *Config) RunDir(runID string) string {
	return filepath.Join(c.RunsDir, runID)
}
