// Package generate sends a built prompt to an LLM and returns its raw text.
package generate

import (
	"context"
	"fmt"
	"sync"

	"github.com/tsukumogami/sitegen/internal/llm"
	"github.com/tsukumogami/sitegen/internal/log"
)

// DefaultMaxTokens is the response budget for one generation call.
const DefaultMaxTokens = 8000

// GenerationError wraps a failed generation call.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("layout generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Client issues one blocking completion per Generate call. It never
// retries; callers bound the call with ctx.
type Client struct {
	providers    llm.Selector
	maxTokens    int
	systemPrompt string
	logger       log.Logger

	mu    sync.Mutex
	usage llm.Usage
}

// Option configures a Client.
type Option func(*Client)

func WithMaxTokens(n int) Option {
	return func(c *Client) { c.maxTokens = n }
}

// WithSystemPrompt sets an optional system prompt sent with every call.
func WithSystemPrompt(s string) Option {
	return func(c *Client) { c.systemPrompt = s }
}

func WithLogger(l log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client drawing providers from sel.
func New(sel llm.Selector, opts ...Option) *Client {
	c := &Client{
		providers: sel,
		maxTokens: DefaultMaxTokens,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate returns the text content of the LLM's answer to prompt. A
// response with no text content yields "" and no error; the parser
// reports that as having no artifacts.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	provider, err := c.providers.GetProvider(ctx)
	if err != nil {
		return "", &GenerationError{Err: err}
	}

	req := llm.UserPrompt(prompt, c.maxTokens)
	req.SystemPrompt = c.systemPrompt

	c.logger.Info("requesting layout generation",
		"provider", provider.Name(),
		"prompt_chars", len(prompt))

	resp, err := provider.Complete(ctx, req)
	if err != nil {
		return "", &GenerationError{Provider: provider.Name(), Err: err}
	}

	c.mu.Lock()
	c.usage.Add(resp.Usage)
	c.mu.Unlock()

	c.logger.Info("generation response received",
		"provider", provider.Name(),
		"response_chars", len(resp.Content),
		"stop_reason", resp.StopReason)
	if resp.StopReason == "max_tokens" {
		c.logger.Warn("generation hit the token limit; trailing components may be cut off",
			"max_tokens", c.maxTokens)
	}
	return resp.Content, nil
}

// Usage returns the tokens consumed by all Generate calls so far.
func (c *Client) Usage() llm.Usage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usage
}
