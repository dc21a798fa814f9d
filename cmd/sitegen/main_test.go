package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/tsukumogami/sitegen/internal/artifact"
	"github.com/tsukumogami/sitegen/internal/fetch"
	"github.com/tsukumogami/sitegen/internal/llm"
	"github.com/tsukumogami/sitegen/internal/pipeline"
)

func TestIsTruthy(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"On", true},
		{"0", false},
		{"false", false},
		{"no", false},
		{"", false},
		{"random", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := isTruthy(tt.input); got != tt.want {
				t.Errorf("isTruthy(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDetermineLogLevel(t *testing.T) {
	origQuiet, origVerbose, origDebug := quietFlag, verboseFlag, debugFlag
	defer func() {
		quietFlag, verboseFlag, debugFlag = origQuiet, origVerbose, origDebug
	}()

	tests := []struct {
		name                    string
		quietF, verboseF, debug bool
		envQuiet, envDebug      string
		want                    slog.Level
	}{
		{name: "default is WARN", want: slog.LevelWarn},
		{name: "debug flag", debug: true, want: slog.LevelDebug},
		{name: "verbose flag", verboseF: true, want: slog.LevelInfo},
		{name: "quiet flag", quietF: true, want: slog.LevelError},
		{name: "debug env var", envDebug: "1", want: slog.LevelDebug},
		{name: "quiet env var", envQuiet: "yes", want: slog.LevelError},
		{name: "flag takes precedence over env var", quietF: true, envDebug: "1", want: slog.LevelError},
		{name: "debug flag overrides verbose flag", debug: true, verboseF: true, want: slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quietFlag, verboseFlag, debugFlag = tt.quietF, tt.verboseF, tt.debug
			t.Setenv("SITEGEN_QUIET", tt.envQuiet)
			t.Setenv("SITEGEN_VERBOSE", "")
			t.Setenv("SITEGEN_DEBUG", tt.envDebug)
			t.Setenv("SITEGEN_LOG_LEVEL", "")

			if got := determineLogLevel(); got != tt.want {
				t.Errorf("determineLogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExitCodeFor(t *testing.T) {
	stageErr := func(s pipeline.Stage, err error) error {
		return &pipeline.StageError{Stage: s, Err: err}
	}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"config", &llm.ConfigError{Provider: "claude", Setting: "anthropic_api_key"}, ExitConfig},
		{"bad request", stageErr(pipeline.StageIdle, pipeline.ErrNoSource), ExitUsage},
		{"fetch", stageErr(pipeline.StageFetching, &fetch.FetchError{URL: "https://x", StatusCode: 404}), ExitFetch},
		{"analysis", stageErr(pipeline.StageAnalyzing, errors.New("bad json")), ExitAnalysis},
		{"generation", stageErr(pipeline.StageGenerating, errors.New("overloaded")), ExitGeneration},
		{"parse", stageErr(pipeline.StageParsing, &artifact.NoArtifactsError{}), ExitParse},
		{"write", stageErr(pipeline.StageWriting, errors.New("disk full")), ExitWrite},
		{"canceled", stageErr(pipeline.StageGenerating, context.Canceled), ExitCanceled},
		{"wrapped config", fmt.Errorf("startup: %w", &llm.ConfigError{}), ExitConfig},
		{"other", errors.New("boom"), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsSecretKey(t *testing.T) {
	tests := map[string]bool{
		"secrets.anthropic_api_key": true,
		"SECRETS.google_api_key":    true,
		"secrets.":                  false,
		"llm.providers":             false,
		"output_dir":                false,
	}
	for key, want := range tests {
		if got := isSecretKey(key); got != want {
			t.Errorf("isSecretKey(%q) = %v, want %v", key, got, want)
		}
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "config", "default"); got != "config" {
		t.Errorf("firstNonEmpty() = %q, want config", got)
	}
	if got := firstNonEmpty("", ""); got != "" {
		t.Errorf("firstNonEmpty() = %q, want empty", got)
	}
}

func TestRootCommandWiring(t *testing.T) {
	for _, name := range []string{"generate", "analyze", "prompt", "config"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered: %v", name, err)
		}
	}
	for _, flag := range []string{"output", "content", "brand", "analysis", "provider", "dry-run"} {
		if generateCmd.Flags().Lookup(flag) == nil {
			t.Errorf("generate is missing --%s", flag)
		}
	}
}
