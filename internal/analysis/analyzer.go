package analysis

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/tsukumogami/sitegen/internal/fetch"
	"github.com/tsukumogami/sitegen/internal/llm"
	"github.com/tsukumogami/sitegen/internal/log"
)

// DefaultMaxTokens is the response budget for one analysis call.
const DefaultMaxTokens = 4000

// Analyzer issues one structural-analysis completion per page.
type Analyzer struct {
	providers llm.Selector
	extractor Extractor
	maxTokens int
	logger    log.Logger

	mu    sync.Mutex
	usage llm.Usage
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithExtractor replaces the default FenceExtractor.
func WithExtractor(e Extractor) Option {
	return func(a *Analyzer) { a.extractor = e }
}

// WithMaxTokens overrides DefaultMaxTokens.
func WithMaxTokens(n int) Option {
	return func(a *Analyzer) { a.maxTokens = n }
}

func WithLogger(l log.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// New creates an Analyzer drawing providers from sel.
func New(sel llm.Selector, opts ...Option) *Analyzer {
	a := &Analyzer{
		providers: sel,
		extractor: FenceExtractor{},
		maxTokens: DefaultMaxTokens,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze sends the page to the LLM and decodes the structural analysis.
// The page URL is injected into the result; the LLM is never asked for it.
func (a *Analyzer) Analyze(ctx context.Context, page *fetch.Page) (*StructuralAnalysis, error) {
	provider, err := a.providers.GetProvider(ctx)
	if err != nil {
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}

	prompt := BuildPrompt(page)
	a.logger.Info("requesting structural analysis",
		"provider", provider.Name(),
		"prompt_chars", len(prompt))

	resp, err := provider.Complete(ctx, llm.UserPrompt(prompt, a.maxTokens))
	if err != nil {
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}
	a.recordUsage(resp.Usage)
	a.logger.Debug("analysis response received",
		"chars", len(resp.Content),
		"stop_reason", resp.StopReason)

	result, err := a.extractor.Extract(resp.Content)
	if err != nil {
		return nil, err
	}
	result.URL = page.URL
	return result, nil
}

// Usage returns the tokens consumed by all Analyze calls so far.
func (a *Analyzer) Usage() llm.Usage {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.usage
}

func (a *Analyzer) recordUsage(u llm.Usage) {
	a.mu.Lock()
	a.usage.Add(u)
	a.mu.Unlock()
}

// BuildPrompt renders the fixed analysis instruction for page.
func BuildPrompt(page *fetch.Page) string {
	var b strings.Builder

	b.WriteString("Analyze this website structure and extract key information:\n\n")
	fmt.Fprintf(&b, "URL: %s\n", page.URL)
	if page.Title != "" {
		fmt.Fprintf(&b, "TITLE: %s\n", page.Title)
	}
	fmt.Fprintf(&b, "SECTION ELEMENTS FOUND: %d\n\n", page.SectionCount)

	b.WriteString("HEADINGS:\n")
	b.WriteString(strings.Join(page.Headings, "\n"))
	b.WriteString("\n\nCONTENT SAMPLE:\n")
	b.WriteString(page.BodyText)
	b.WriteString("\n\n")

	if page.Markdown != "" && page.Markdown != page.BodyText {
		b.WriteString("MARKDOWN OUTLINE:\n")
		b.WriteString(page.Markdown)
		b.WriteString("\n\n")
	}

	b.WriteString(`Provide a JSON response with:
1. sections: Array of distinct sections (likely: hero, about, services/approach, contact, footer)
   For each section provide:
   - name: short descriptive name
   - purpose: what this section does
   - elements: key UI elements (heading, text, CTA, etc)
   - hierarchy: importance level 1-5

2. layoutPatterns: Array describing layout types used
   - type: hero | text-block | card-grid | form | footer
   - structure: brief description

3. colorUsage: Guess the general color strategy
   - background: likely background colors
   - text: likely text colors
   - accents: likely accent colors

Return ONLY valid JSON, no markdown formatting.`)

	return b.String()
}
