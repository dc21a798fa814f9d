// Package httputil builds the HTTP client used to fetch reference pages.
package httputil

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

// DefaultUserAgent mimics a desktop browser; some sites serve a stripped
// page to unknown agents.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// ClientOptions configures the secure HTTP client.
type ClientOptions struct {
	// Timeout is the overall request timeout. Default: 30s.
	Timeout time.Duration

	// DialTimeout is the TCP dial timeout. Default: 30s.
	DialTimeout time.Duration

	// TLSHandshakeTimeout is the TLS handshake timeout. Default: 10s.
	TLSHandshakeTimeout time.Duration

	// ResponseHeaderTimeout is the time to wait for response headers. Default: 10s.
	ResponseHeaderTimeout time.Duration

	// MaxRedirects is the maximum redirect depth. Default: 10.
	MaxRedirects int

	// UserAgent is sent on every request. Default: DefaultUserAgent.
	UserAgent string

	// AcceptEncodings is advertised in Accept-Encoding. The transport never
	// decodes bodies itself; callers decode with DecodeBody so the decoded
	// size stays bounded. Default: none.
	AcceptEncodings []string

	// MaxIdleConns is the maximum number of idle connections. Default: 10.
	MaxIdleConns int

	// IdleConnTimeout is how long idle connections stay open. Default: 90s.
	IdleConnTimeout time.Duration
}

// DefaultOptions returns the default client options.
func DefaultOptions() ClientOptions {
	return ClientOptions{
		Timeout:               30 * time.Second,
		DialTimeout:           30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		MaxRedirects:          10,
		UserAgent:             DefaultUserAgent,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
	}
}

// NewSecureClient creates an HTTP client for fetching untrusted pages.
//
// Security features:
//   - Transparent decompression is disabled; see DecodeBody
//   - SSRF protection via redirect validation (blocks private, loopback, link-local IPs)
//   - DNS rebinding protection (resolves hostnames and validates all IPs)
//   - No HTTPS to HTTP downgrades; http to http redirects are followed
//
// The first URL is not address-checked: it is chosen by the user, who may
// point sitegen at a local development server.
//   - Configurable redirect chain limit
func NewSecureClient(opts ClientOptions) *http.Client {
	def := DefaultOptions()
	if opts.Timeout == 0 {
		opts.Timeout = def.Timeout
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = def.DialTimeout
	}
	if opts.TLSHandshakeTimeout == 0 {
		opts.TLSHandshakeTimeout = def.TLSHandshakeTimeout
	}
	if opts.ResponseHeaderTimeout == 0 {
		opts.ResponseHeaderTimeout = def.ResponseHeaderTimeout
	}
	if opts.MaxRedirects == 0 {
		opts.MaxRedirects = def.MaxRedirects
	}
	if opts.UserAgent == "" {
		opts.UserAgent = def.UserAgent
	}
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = def.MaxIdleConns
	}
	if opts.IdleConnTimeout == 0 {
		opts.IdleConnTimeout = def.IdleConnTimeout
	}

	base := &http.Transport{
		Proxy:              http.ProxyFromEnvironment,
		DisableCompression: true,
		DialContext: (&net.Dialer{
			Timeout:   opts.DialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   opts.TLSHandshakeTimeout,
		ResponseHeaderTimeout: opts.ResponseHeaderTimeout,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          opts.MaxIdleConns,
		IdleConnTimeout:       opts.IdleConnTimeout,
	}

	return &http.Client{
		Timeout:       opts.Timeout,
		Transport:     WithHeaders(base, opts.UserAgent, opts.AcceptEncodings),
		CheckRedirect: makeRedirectChecker(opts.MaxRedirects),
	}
}

// headerTransport sets default request headers without overriding ones the
// caller already set.
type headerTransport struct {
	next           http.RoundTripper
	userAgent      string
	acceptEncoding string
}

// WithHeaders wraps next so every request carries the given User-Agent and
// Accept-Encoding values.
func WithHeaders(next http.RoundTripper, userAgent string, encodings []string) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &headerTransport{
		next:           next,
		userAgent:      userAgent,
		acceptEncoding: strings.Join(encodings, ", "),
	}
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if t.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	if t.acceptEncoding != "" && req.Header.Get("Accept-Encoding") == "" {
		req.Header.Set("Accept-Encoding", t.acceptEncoding)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	}
	return t.next.RoundTrip(req)
}

// makeRedirectChecker creates a redirect validation function.
func makeRedirectChecker(maxRedirects int) func(req *http.Request, via []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		switch req.URL.Scheme {
		case "https":
		case "http":
			// Plain http is followed only while the chain never used https.
			for _, prev := range via {
				if prev.URL.Scheme == "https" {
					return fmt.Errorf("downgrade from HTTPS to non-HTTPS URL is not allowed: %s", req.URL)
				}
			}
		default:
			return fmt.Errorf("redirect to unsupported scheme is not allowed: %s", req.URL)
		}

		if len(via) >= maxRedirects {
			return fmt.Errorf("too many redirects")
		}

		host := req.URL.Hostname()
		if ip := net.ParseIP(host); ip != nil {
			return CheckIP(ip, host)
		}

		// Resolve and check every address to defeat DNS rebinding.
		ips, err := net.LookupIP(host)
		if err != nil {
			return fmt.Errorf("failed to resolve redirect host %s: %w", host, err)
		}
		for _, ip := range ips {
			if err := CheckIP(ip, host); err != nil {
				return err
			}
		}
		return nil
	}
}
