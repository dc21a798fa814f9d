package functional

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/cucumber/godog"

	"github.com/tsukumogami/sitegen/internal/analysis"
	"github.com/tsukumogami/sitegen/internal/llm"
	"github.com/tsukumogami/sitegen/internal/pipeline"
)

type stateKeyType struct{}

var stateKey = stateKeyType{}

// testState is the per-scenario world: a reference page server, a scripted
// LLM and the outcome of one pipeline run.
type testState struct {
	server     *httptest.Server
	pageStatus int
	pageHTML   string

	provider *scriptedProvider
	analysis *analysis.StructuralAnalysis

	outputDir string
	result    *pipeline.Result
	err       error
}

func getState(ctx context.Context) *testState {
	if s, ok := ctx.Value(stateKey).(*testState); ok {
		return s
	}
	return nil
}

func setState(ctx context.Context, s *testState) context.Context {
	return context.WithValue(ctx, stateKey, s)
}

func TestFeatures(t *testing.T) {
	opts := &godog.Options{
		Format:   "pretty",
		Paths:    []string{"features"},
		TestingT: t,
	}
	if tags := os.Getenv("SITEGEN_TEST_TAGS"); tags != "" {
		opts.Tags = tags
	}

	suite := godog.TestSuite{
		ScenarioInitializer: initializeScenario,
		Options:             opts,
	}
	if suite.Run() != 0 {
		t.Fatal("functional tests failed")
	}
}

func initializeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "sitegen-functional-")
		if err != nil {
			return ctx, err
		}
		state := &testState{
			pageStatus: 200,
			provider:   &scriptedProvider{},
			outputDir:  filepath.Join(dir, "layouts"),
		}
		return setState(ctx, state), nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if state := getState(ctx); state != nil {
			if state.server != nil {
				state.server.Close()
			}
			os.RemoveAll(filepath.Dir(state.outputDir))
		}
		return ctx, nil
	})

	// Setup steps
	ctx.Step(`^a reference page with (\d+) sections$`, aReferencePageWithSections)
	ctx.Step(`^the reference page returns status (\d+)$`, theReferencePageReturnsStatus)
	ctx.Step(`^a saved analysis with a "([^"]*)" section$`, aSavedAnalysisWithSection)
	ctx.Step(`^the LLM answers the analysis with:$`, theLLMAnswers)
	ctx.Step(`^the LLM answers the generation with:$`, theLLMAnswers)
	ctx.Step(`^the LLM answers the generation with components "([^"]*)"$`, theLLMAnswersWithComponents)

	// Action steps
	ctx.Step(`^I run the pipeline$`, iRunThePipeline)
	ctx.Step(`^I run the pipeline as a dry run$`, iRunThePipelineAsADryRun)

	// Assertion steps
	ctx.Step(`^the run succeeds$`, theRunSucceeds)
	ctx.Step(`^the run fails at stage "([^"]*)"$`, theRunFailsAtStage)
	ctx.Step(`^the error is a "([^"]*)"$`, theErrorIsA)
	ctx.Step(`^the output directory contains exactly "([^"]*)"$`, theOutputDirectoryContainsExactly)
	ctx.Step(`^no files are written$`, noFilesAreWritten)
	ctx.Step(`^the file "([^"]*)" has no surrounding whitespace$`, theFileHasNoSurroundingWhitespace)
	ctx.Step(`^the file "([^"]*)" contains "([^"]*)"$`, theFileContains)
	ctx.Step(`^the LLM was called (\d+) times?$`, theLLMWasCalledTimes)
	ctx.Step(`^the analysis has (\d+) sections$`, theAnalysisHasSections)
	ctx.Step(`^the stages "([^"]*)" were skipped$`, theStagesWereSkipped)
	ctx.Step(`^the prompt contains "([^"]*)"$`, thePromptContains)

}

// scriptedProvider answers Complete calls with queued responses in order.
type scriptedProvider struct {
	replies []string
	calls   int
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.calls >= len(p.replies) {
		p.calls++
		return nil, errNoReply
	}
	reply := p.replies[p.calls]
	p.calls++
	return &llm.CompletionResponse{
		Content:    reply,
		StopReason: "end_turn",
		Usage:      llm.Usage{InputTokens: 100, OutputTokens: len(reply)},
	}, nil
}
