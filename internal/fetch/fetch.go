// Package fetch retrieves a reference page and reduces it to the parts the
// structural analyzer needs: title, headings, a body text sample and a
// markdown rendition.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/tsukumogami/sitegen/internal/httputil"
	"github.com/tsukumogami/sitegen/internal/log"
)

const (
	// DefaultBodyTextLimit is the number of runes of body text kept.
	DefaultBodyTextLimit = 5000

	// DefaultMarkdownLimit is the number of runes of markdown kept.
	DefaultMarkdownLimit = 8000
)

// Page is the reduced form of a fetched document.
type Page struct {
	URL          string
	HTML         string
	Title        string
	Headings     []string
	BodyText     string
	Markdown     string
	SectionCount int
}

// FetchError reports a page that could not be retrieved. StatusCode is zero
// when the request never produced a response.
type FetchError struct {
	URL        string
	StatusCode int
	Status     string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch %s: %s", e.URL, e.Status)
	}
	return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher downloads pages with a hardened HTTP client.
type Fetcher struct {
	client        *http.Client
	maxBodyBytes  int64
	bodyTextLimit int
	markdownLimit int
	logger        log.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default client. The client must not decode
// bodies transparently.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithTimeout sets the overall request timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		opts := httputil.DefaultOptions()
		opts.Timeout = d
		opts.AcceptEncodings = acceptEncodings
		f.client = httputil.NewSecureClient(opts)
	}
}

// WithMaxBodyBytes caps the decoded response size.
func WithMaxBodyBytes(n int64) Option {
	return func(f *Fetcher) { f.maxBodyBytes = n }
}

// WithMarkdownLimit caps the markdown rendition in runes.
func WithMarkdownLimit(n int) Option {
	return func(f *Fetcher) { f.markdownLimit = n }
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

var acceptEncodings = []string{"gzip", "zstd"}

// New creates a Fetcher.
func New(opts ...Option) *Fetcher {
	clientOpts := httputil.DefaultOptions()
	clientOpts.AcceptEncodings = acceptEncodings

	f := &Fetcher{
		client:        httputil.NewSecureClient(clientOpts),
		maxBodyBytes:  httputil.DefaultMaxBodyBytes,
		bodyTextLimit: DefaultBodyTextLimit,
		markdownLimit: DefaultMarkdownLimit,
		logger:        log.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads rawURL and extracts its structure. Any non-2xx status is
// a *FetchError; so are transport and decoding failures.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		if err == nil {
			err = fmt.Errorf("URL must be absolute http or https")
		}
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	f.logger.Debug("fetching page", "url", rawURL)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	body, err := httputil.DecodeBody(resp, f.maxBodyBytes)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	page := Parse(rawURL, string(body), f.bodyTextLimit)
	page.Markdown = toMarkdown(page.HTML, rawURL, page.BodyText, f.markdownLimit)

	f.logger.Info("page fetched",
		"url", rawURL,
		"bytes", len(body),
		"headings", len(page.Headings),
		"sections", page.SectionCount)
	return page, nil
}
