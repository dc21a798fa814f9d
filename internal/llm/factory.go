package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Factory builds the LLM providers that have credentials and hands out the
// most preferred one. A run makes at most two calls and never retries, so
// there is no failover between providers within a run.
type Factory struct {
	providers map[string]Provider
	order     []string
}

// defaultOrder is used when no provider order is configured.
var defaultOrder = []string{"claude", "gemini"}

// factoryOptions holds configuration for creating a factory.
type factoryOptions struct {
	order       []string
	claudeModel string
	geminiModel string
}

// FactoryOption configures a Factory.
type FactoryOption func(*factoryOptions)

// WithPrimaryProvider moves the named provider to the front of the order.
func WithPrimaryProvider(name string) FactoryOption {
	return func(o *factoryOptions) {
		order := []string{name}
		for _, n := range o.order {
			if n != name {
				order = append(order, n)
			}
		}
		o.order = order
	}
}

// WithProviderOrder sets the preferred provider order.
// The first provider in the list becomes the primary.
func WithProviderOrder(providers []string) FactoryOption {
	return func(o *factoryOptions) {
		if len(providers) > 0 {
			o.order = append([]string(nil), providers...)
		}
	}
}

// WithModels overrides the model used by each provider.
// Empty values keep the provider default.
func WithModels(claude, gemini string) FactoryOption {
	return func(o *factoryOptions) {
		o.claudeModel = claude
		o.geminiModel = gemini
	}
}

func newFactoryOptions(opts []FactoryOption) *factoryOptions {
	o := &factoryOptions{order: append([]string(nil), defaultOrder...)}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NewFactory creates a factory with every provider whose credential is set.
// Returns a *ConfigError when no credential is available at all.
func NewFactory(ctx context.Context, creds Credentials, opts ...FactoryOption) (*Factory, error) {
	o := newFactoryOptions(opts)

	f := &Factory{
		providers: make(map[string]Provider),
		order:     o.order,
	}

	if creds.AnthropicAPIKey != "" {
		provider, err := NewClaudeProvider(creds.AnthropicAPIKey, o.claudeModel)
		if err != nil {
			return nil, err
		}
		f.add(provider)
	}

	if creds.GoogleAPIKey != "" {
		provider, err := NewGeminiProvider(ctx, creds.GoogleAPIKey, o.geminiModel)
		if err != nil {
			return nil, err
		}
		f.add(provider)
	}

	if len(f.providers) == 0 {
		return nil, &ConfigError{
			Provider: strings.Join(f.order, "/"),
			Setting:  "anthropic_api_key or google_api_key",
		}
	}

	return f, nil
}

// NewFactoryWithProviders creates a factory with the given providers.
// This is useful for testing with stub providers.
func NewFactoryWithProviders(providers map[string]Provider, opts ...FactoryOption) *Factory {
	o := newFactoryOptions(opts)

	f := &Factory{
		providers: make(map[string]Provider),
		order:     o.order,
	}
	for _, provider := range providers {
		f.add(provider)
	}
	return f
}

func (f *Factory) add(p Provider) {
	f.providers[p.Name()] = p
}

// GetProvider returns the first configured provider in preference order.
// Providers missing from the order come last, by name.
func (f *Factory) GetProvider(ctx context.Context) (Provider, error) {
	for _, name := range f.candidates() {
		if provider, ok := f.providers[name]; ok {
			return provider, nil
		}
	}
	return nil, fmt.Errorf("no LLM providers available")
}

// candidates lists provider names in preference order.
func (f *Factory) candidates() []string {
	seen := make(map[string]bool, len(f.providers))
	names := make([]string, 0, len(f.providers))
	for _, name := range f.order {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	var rest []string
	for name := range f.providers {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// HasProvider returns true if the factory has the specified provider.
func (f *Factory) HasProvider(name string) bool {
	_, ok := f.providers[name]
	return ok
}

// ProviderCount returns the number of registered providers.
func (f *Factory) ProviderCount() int {
	return len(f.providers)
}

// Close releases provider resources that need it.
func (f *Factory) Close() error {
	for _, p := range f.providers {
		if c, ok := p.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Selector hands out the provider to use for the next call. *Factory is
// the production implementation.
type Selector interface {
	GetProvider(ctx context.Context) (Provider, error)
}

// Static returns a Selector that always yields p.
func Static(p Provider) Selector {
	return staticSelector{p}
}

type staticSelector struct{ p Provider }

func (s staticSelector) GetProvider(context.Context) (Provider, error) {
	if s.p == nil {
		return nil, fmt.Errorf("no LLM provider configured")
	}
	return s.p, nil
}
