package main

import (
	"context"
	"errors"
	"os"

	"github.com/tsukumogami/sitegen/internal/llm"
	"github.com/tsukumogami/sitegen/internal/pipeline"
)

// Exit codes for different error types.
// These enable scripts to distinguish between failure modes.
const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0

	// ExitGeneral indicates a general error
	ExitGeneral = 1

	// ExitUsage indicates invalid arguments or usage error
	ExitUsage = 2

	// ExitConfig indicates missing credentials or an unreadable input file
	ExitConfig = 3

	// ExitFetch indicates the reference page could not be fetched
	ExitFetch = 4

	// ExitAnalysis indicates structural analysis failed
	ExitAnalysis = 5

	// ExitGeneration indicates the layout generation call failed
	ExitGeneration = 6

	// ExitParse indicates the LLM response held no usable components
	ExitParse = 7

	// ExitWrite indicates generated files could not be written
	ExitWrite = 8

	// ExitCanceled indicates the run was interrupted (128 + SIGINT)
	ExitCanceled = 130
)

// exitCodeFor maps an error to the exit code for the failing stage.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, context.Canceled) {
		return ExitCanceled
	}

	var cfgErr *llm.ConfigError
	if errors.As(err, &cfgErr) {
		return ExitConfig
	}

	var stageErr *pipeline.StageError
	if errors.As(err, &stageErr) {
		switch stageErr.Stage {
		case pipeline.StageIdle:
			return ExitUsage
		case pipeline.StageFetching:
			return ExitFetch
		case pipeline.StageAnalyzing:
			return ExitAnalysis
		case pipeline.StageGenerating:
			return ExitGeneration
		case pipeline.StageParsing:
			return ExitParse
		case pipeline.StageWriting:
			return ExitWrite
		}
	}
	return ExitGeneral
}

// exitWithCode exits with the specified exit code
func exitWithCode(code int) {
	os.Exit(code)
}
