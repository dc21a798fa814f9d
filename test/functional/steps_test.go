package functional

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cucumber/godog"

	"github.com/tsukumogami/sitegen/internal/analysis"
	"github.com/tsukumogami/sitegen/internal/artifact"
	"github.com/tsukumogami/sitegen/internal/brand"
	"github.com/tsukumogami/sitegen/internal/fetch"
	"github.com/tsukumogami/sitegen/internal/generate"
	"github.com/tsukumogami/sitegen/internal/llm"
	"github.com/tsukumogami/sitegen/internal/log"
	"github.com/tsukumogami/sitegen/internal/materialize"
	"github.com/tsukumogami/sitegen/internal/pipeline"
)

var errNoReply = errors.New("scripted provider has no reply left")

func aReferencePageWithSections(ctx context.Context, n int) (context.Context, error) {
	state := getState(ctx)
	var sb strings.Builder
	sb.WriteString("<html><head><title>Reference Studio</title></head><body>")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&sb, "<section><h2>Section %d</h2><p>Body copy %d.</p></section>", i, i)
	}
	sb.WriteString("</body></html>")
	state.pageHTML = sb.String()
	return ctx, nil
}

func theReferencePageReturnsStatus(ctx context.Context, status int) (context.Context, error) {
	state := getState(ctx)
	state.pageStatus = status
	state.pageHTML = "<html><body>gone</body></html>"
	return ctx, nil
}

func aSavedAnalysisWithSection(ctx context.Context, name string) (context.Context, error) {
	state := getState(ctx)
	state.analysis = &analysis.StructuralAnalysis{
		URL:      "https://saved.example",
		Sections: []analysis.Section{{Name: name, Purpose: "Main message", Hierarchy: 1}},
	}
	return ctx, nil
}

func theLLMAnswers(ctx context.Context, reply *godog.DocString) (context.Context, error) {
	state := getState(ctx)
	state.provider.replies = append(state.provider.replies, reply.Content)
	return ctx, nil
}

func theLLMAnswersWithComponents(ctx context.Context, names string) (context.Context, error) {
	state := getState(ctx)
	var sb strings.Builder
	sb.WriteString("Here are the components.\n\n")
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		fmt.Fprintf(&sb, "<Component name=%q>\n\n  export default function %s() {\n    return <div className=\"%s\" />;\n  }\n\n</Component>\n\n",
			name, name, strings.ToLower(name))
	}
	state.provider.replies = append(state.provider.replies, sb.String())
	return ctx, nil
}

func iRunThePipeline(ctx context.Context) (context.Context, error) {
	return run(ctx, false)
}

func iRunThePipelineAsADryRun(ctx context.Context) (context.Context, error) {
	return run(ctx, true)
}

func run(ctx context.Context, dryRun bool) (context.Context, error) {
	state := getState(ctx)

	state.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(state.pageStatus)
		_, _ = w.Write([]byte(state.pageHTML))
	}))

	sel := llm.Static(state.provider)
	p := pipeline.New(
		fetch.New(fetch.WithHTTPClient(state.server.Client())),
		analysis.New(sel),
		generate.New(sel),
		pipeline.WithLogger(log.NewNoop()),
	)

	state.result, state.err = p.Run(ctx, pipeline.Request{
		URL:       state.server.URL + "/home",
		OutputDir: state.outputDir,
		Content: &brand.Content{
			Hero: brand.Hero{Headline: "Quiet Strength. Real Returns.", CTA: brand.CTA{Text: "Start", Link: "#contact"}},
		},
		Brand:    brand.Default(),
		Analysis: state.analysis,
		DryRun:   dryRun,
	})
	return ctx, nil
}

func theRunSucceeds(ctx context.Context) error {
	state := getState(ctx)
	if state.err != nil {
		return fmt.Errorf("expected success, got: %v", state.err)
	}
	if state.result.State() != pipeline.StageDone {
		return fmt.Errorf("expected state done, got %s", state.result.State())
	}
	return nil
}

func theRunFailsAtStage(ctx context.Context, stage string) error {
	state := getState(ctx)
	var stageErr *pipeline.StageError
	if !errors.As(state.err, &stageErr) {
		return fmt.Errorf("expected a stage error, got: %v", state.err)
	}
	if stageErr.Stage.String() != stage {
		return fmt.Errorf("expected failure at %q, got %q (%v)", stage, stageErr.Stage, state.err)
	}
	if state.result.State() != pipeline.StageFailed {
		return fmt.Errorf("expected state failed, got %s", state.result.State())
	}
	return nil
}

func theErrorIsA(ctx context.Context, kind string) error {
	state := getState(ctx)
	var ok bool
	switch kind {
	case "FetchError":
		var e *fetch.FetchError
		ok = errors.As(state.err, &e)
	case "AnalysisParseError":
		var e *analysis.AnalysisParseError
		ok = errors.As(state.err, &e)
	case "NoArtifactsError":
		var e *artifact.NoArtifactsError
		ok = errors.As(state.err, &e)
	case "PathTraversalError":
		var e *materialize.PathTraversalError
		ok = errors.As(state.err, &e)
	case "GenerationError":
		var e *generate.GenerationError
		ok = errors.As(state.err, &e)
	default:
		return fmt.Errorf("unknown error kind %q", kind)
	}
	if !ok {
		return fmt.Errorf("expected %s, got %T: %v", kind, errors.Unwrap(state.err), state.err)
	}
	return nil
}

func listOutput(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func theOutputDirectoryContainsExactly(ctx context.Context, want string) error {
	state := getState(ctx)
	got, err := listOutput(state.outputDir)
	if err != nil {
		return err
	}
	expected := strings.Split(want, ",")
	sort.Strings(expected)
	if strings.Join(got, ",") != strings.Join(expected, ",") {
		return fmt.Errorf("expected files %v, got %v", expected, got)
	}
	return nil
}

func noFilesAreWritten(ctx context.Context) error {
	state := getState(ctx)
	got, err := listOutput(state.outputDir)
	if err != nil {
		return err
	}
	if len(got) != 0 {
		return fmt.Errorf("expected no files, got %v", got)
	}
	return nil
}

func readOutput(state *testState, name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(state.outputDir, name))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func theFileHasNoSurroundingWhitespace(ctx context.Context, name string) error {
	content, err := readOutput(getState(ctx), name)
	if err != nil {
		return err
	}
	if strings.TrimSpace(content) != content {
		return fmt.Errorf("expected %s to be trimmed, got %q", name, content)
	}
	return nil
}

func theFileContains(ctx context.Context, name, text string) error {
	content, err := readOutput(getState(ctx), name)
	if err != nil {
		return err
	}
	if !strings.Contains(content, text) {
		return fmt.Errorf("expected %s to contain %q, got:\n%s", name, text, content)
	}
	return nil
}

func theLLMWasCalledTimes(ctx context.Context, n int) error {
	state := getState(ctx)
	if state.provider.calls != n {
		return fmt.Errorf("expected %d LLM calls, got %d", n, state.provider.calls)
	}
	return nil
}

func theAnalysisHasSections(ctx context.Context, n int) error {
	state := getState(ctx)
	if state.result.Analysis == nil {
		return fmt.Errorf("no analysis recorded")
	}
	if got := len(state.result.Analysis.Sections); got != n {
		return fmt.Errorf("expected %d sections, got %d", n, got)
	}
	if !strings.HasPrefix(state.result.Analysis.URL, state.server.URL) {
		return fmt.Errorf("analysis URL %q was not taken from the fetched page", state.result.Analysis.URL)
	}
	return nil
}

func theStagesWereSkipped(ctx context.Context, stages string) error {
	state := getState(ctx)
	var got []string
	for _, s := range state.result.Skipped {
		got = append(got, s.String())
	}
	if strings.Join(got, ",") != stages {
		return fmt.Errorf("expected skipped stages %q, got %q", stages, strings.Join(got, ","))
	}
	return nil
}

func thePromptContains(ctx context.Context, text string) error {
	state := getState(ctx)
	if !strings.Contains(state.result.Prompt, text) {
		return fmt.Errorf("expected prompt to contain %q", text)
	}
	return nil
}
