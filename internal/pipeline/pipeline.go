// Package pipeline sequences one site-cloning run:
//
//	Idle -> Fetching -> Analyzing -> PromptBuilding -> Generating -> Parsing -> Writing -> Done
//
// Each stage runs at most once. The first failure moves the run to Failed
// and is returned as *StageError; nothing is retried and nothing already on
// disk is cleaned up. No file is written before parsing has produced a
// non-empty artifact set.
package pipeline

import (
	"context"
	"crypto/rand"
	"errors"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tsukumogami/sitegen/internal/analysis"
	"github.com/tsukumogami/sitegen/internal/artifact"
	"github.com/tsukumogami/sitegen/internal/brand"
	"github.com/tsukumogami/sitegen/internal/fetch"
	"github.com/tsukumogami/sitegen/internal/llm"
	"github.com/tsukumogami/sitegen/internal/log"
	"github.com/tsukumogami/sitegen/internal/materialize"
	"github.com/tsukumogami/sitegen/internal/prompt"
)

// Fetcher retrieves a reference page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Page, error)
}

// Analyzer turns a page into a structural analysis.
type Analyzer interface {
	Analyze(ctx context.Context, page *fetch.Page) (*analysis.StructuralAnalysis, error)
}

// Generator returns raw LLM text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Parser extracts artifacts from generator text.
type Parser interface {
	Parse(text string) (*artifact.Result, error)
}

// Materializer writes artifacts to a directory.
type Materializer interface {
	Write(ctx context.Context, set artifact.Set, dir string) ([]string, error)
}

// PromptBuilder renders the generation prompt. It must be pure.
type PromptBuilder func(a *analysis.StructuralAnalysis, c *brand.Content, b *brand.Config) string

// Reporter receives stage progress for display.
type Reporter interface {
	Start(stage string)
	Done(stage string, elapsed time.Duration)
	Skip(stage string)
	Fail(stage string, err error)
}

// usageReporter is implemented by collaborators that track token usage.
type usageReporter interface {
	Usage() llm.Usage
}

// Request is the input to one run.
type Request struct {
	// URL is the reference page. Ignored when Analysis is set.
	URL string

	// OutputDir receives the generated files.
	OutputDir string

	Content *brand.Content

	// Brand defaults to brand.Default() when nil.
	Brand *brand.Config

	// Analysis, when set, is used as-is and the Fetching and Analyzing
	// stages are skipped.
	Analysis *analysis.StructuralAnalysis

	// DryRun stops after Parsing; the Writing stage is skipped.
	DryRun bool
}

// Result describes a run. Run returns a non-nil Result even on failure so
// callers can report how far the run got.
type Result struct {
	RunID      string
	Analysis   *analysis.StructuralAnalysis
	Prompt     string
	Artifacts  artifact.Set
	Rejections []artifact.Rejection
	Duplicates []string
	Written    []string
	Usage      llm.Usage
	Duration   time.Duration

	// Transitions lists every state entered, starting with Idle and ending
	// with Done or Failed.
	Transitions []Stage

	// Skipped lists stages that were not run.
	Skipped []Stage
}

// State returns the final state of the run.
func (r *Result) State() Stage {
	if len(r.Transitions) == 0 {
		return StageIdle
	}
	return r.Transitions[len(r.Transitions)-1]
}

// Pipeline runs requests through its collaborators. It holds no per-run
// state and may be reused.
type Pipeline struct {
	fetcher      Fetcher
	analyzer     Analyzer
	generator    Generator
	parser       Parser
	materializer Materializer
	buildPrompt  PromptBuilder
	reporter     Reporter
	logger       log.Logger
	now          func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

func WithParser(p Parser) Option {
	return func(pl *Pipeline) { pl.parser = p }
}

func WithMaterializer(m Materializer) Option {
	return func(pl *Pipeline) { pl.materializer = m }
}

func WithPromptBuilder(b PromptBuilder) Option {
	return func(pl *Pipeline) { pl.buildPrompt = b }
}

func WithReporter(r Reporter) Option {
	return func(pl *Pipeline) { pl.reporter = r }
}

func WithLogger(l log.Logger) Option {
	return func(pl *Pipeline) { pl.logger = l }
}

// New creates a Pipeline. Parsing, prompt building and writing default to
// artifact.NewParser, prompt.Build and materialize.New.
func New(f Fetcher, a Analyzer, g Generator, opts ...Option) *Pipeline {
	p := &Pipeline{
		fetcher:      f,
		analyzer:     a,
		generator:    g,
		parser:       artifact.NewParser(),
		materializer: materialize.New(),
		buildPrompt:  prompt.Build,
		reporter:     nopReporter{},
		logger:       log.Default(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ErrNoOutputDir is returned when a non-dry-run request has no OutputDir.
var ErrNoOutputDir = errors.New("output directory is required")

// ErrNoSource is returned when a request has neither URL nor Analysis.
var ErrNoSource = errors.New("a URL or a precomputed analysis is required")

// Run executes req. Failures are returned as *StageError.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	id := NewRunID()
	r := &run{
		p:      p,
		res:    &Result{RunID: id, Transitions: []Stage{StageIdle}},
		logger: p.logger.With("run_id", id),
	}

	start := p.now()
	defer func() { r.res.Duration = p.now().Sub(start) }()

	if req.URL == "" && req.Analysis == nil {
		return r.res, r.fail(StageIdle, ErrNoSource)
	}
	if req.OutputDir == "" && !req.DryRun {
		return r.res, r.fail(StageIdle, ErrNoOutputDir)
	}
	brandCfg := req.Brand
	if brandCfg == nil {
		brandCfg = brand.Default()
	}

	usageBefore := p.usage()
	defer func() {
		after := p.usage()
		r.res.Usage = llm.Usage{
			InputTokens:  after.InputTokens - usageBefore.InputTokens,
			OutputTokens: after.OutputTokens - usageBefore.OutputTokens,
		}
	}()

	r.logger.Info("pipeline started", "url", req.URL, "output_dir", req.OutputDir)

	// Fetching and Analyzing
	if req.Analysis != nil {
		r.skip(StageFetching)
		r.skip(StageAnalyzing)
		r.res.Analysis = req.Analysis
	} else {
		var page *fetch.Page
		if err := r.stage(ctx, StageFetching, func() (err error) {
			page, err = p.fetcher.Fetch(ctx, req.URL)
			return err
		}); err != nil {
			return r.res, err
		}

		if err := r.stage(ctx, StageAnalyzing, func() (err error) {
			r.res.Analysis, err = p.analyzer.Analyze(ctx, page)
			return err
		}); err != nil {
			return r.res, err
		}
	}

	if err := r.stage(ctx, StagePromptBuilding, func() error {
		r.res.Prompt = p.buildPrompt(r.res.Analysis, req.Content, brandCfg)
		r.logger.Debug("prompt built", "chars", len(r.res.Prompt))
		return nil
	}); err != nil {
		return r.res, err
	}

	var text string
	if err := r.stage(ctx, StageGenerating, func() (err error) {
		text, err = p.generator.Generate(ctx, r.res.Prompt)
		return err
	}); err != nil {
		return r.res, err
	}

	if err := r.stage(ctx, StageParsing, func() error {
		parsed, err := p.parser.Parse(text)
		if err != nil {
			return err
		}
		r.res.Artifacts = parsed.Artifacts
		r.res.Rejections = parsed.Rejections
		r.res.Duplicates = parsed.Duplicates
		return nil
	}); err != nil {
		return r.res, err
	}

	if req.DryRun {
		r.skip(StageWriting)
	} else if err := r.stage(ctx, StageWriting, func() (err error) {
		r.res.Written, err = p.materializer.Write(ctx, r.res.Artifacts, req.OutputDir)
		return err
	}); err != nil {
		return r.res, err
	}

	r.res.Transitions = append(r.res.Transitions, StageDone)
	r.logger.Info("pipeline finished",
		"artifacts", len(r.res.Artifacts),
		"written", len(r.res.Written),
		"rejected", len(r.res.Rejections))
	return r.res, nil
}

func (p *Pipeline) usage() llm.Usage {
	var total llm.Usage
	for _, c := range []any{p.analyzer, p.generator} {
		if u, ok := c.(usageReporter); ok {
			total.Add(u.Usage())
		}
	}
	return total
}

// run carries the state of one Run call.
type run struct {
	p      *Pipeline
	res    *Result
	logger log.Logger
}

// stage enters s, runs fn and records the outcome. A canceled context
// fails the stage before fn runs.
func (r *run) stage(ctx context.Context, s Stage, fn func() error) error {
	r.res.Transitions = append(r.res.Transitions, s)
	r.p.reporter.Start(s.Label())
	r.logger.Debug("stage started", "stage", s.String())

	began := r.p.now()
	err := ctx.Err()
	if err == nil {
		err = fn()
	}
	if err != nil {
		return r.fail(s, err)
	}

	elapsed := r.p.now().Sub(began)
	r.p.reporter.Done(s.Label(), elapsed)
	r.logger.Debug("stage finished", "stage", s.String(), "elapsed", elapsed)
	return nil
}

func (r *run) skip(s Stage) {
	r.res.Skipped = append(r.res.Skipped, s)
	r.p.reporter.Skip(s.Label())
	r.logger.Info("stage skipped", "stage", s.String())
}

func (r *run) fail(s Stage, err error) error {
	r.res.Transitions = append(r.res.Transitions, StageFailed)
	r.p.reporter.Fail(s.Label(), err)
	r.logger.Error("stage failed", "stage", s.String(), "error", err)
	return &StageError{Stage: s, Err: err}
}

type nopReporter struct{}

func (nopReporter) Start(string)               {}
func (nopReporter) Done(string, time.Duration) {}
func (nopReporter) Skip(string)                {}
func (nopReporter) Fail(string, error)         {}

var entropyPool = sync.Pool{
	New: func() any {
		return ulid.Monotonic(rand.Reader, 0)
	},
}

// NewRunID returns a new ULID identifying one run.
func NewRunID() string {
	e := entropyPool.Get().(*ulid.MonotonicEntropy)
	defer entropyPool.Put(e)
	return ulid.MustNew(ulid.Timestamp(time.Now()), e).String()
}
