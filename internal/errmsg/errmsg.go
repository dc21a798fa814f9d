// Package errmsg renders pipeline errors with possible causes and
// suggestions for the CLI.
package errmsg

import (
	"errors"
	"net"
	"strings"

	"github.com/tsukumogami/sitegen/internal/analysis"
	"github.com/tsukumogami/sitegen/internal/artifact"
	"github.com/tsukumogami/sitegen/internal/fetch"
	"github.com/tsukumogami/sitegen/internal/generate"
	"github.com/tsukumogami/sitegen/internal/llm"
	"github.com/tsukumogami/sitegen/internal/materialize"
)

// ErrorContext provides additional context for error formatting
type ErrorContext struct {
	URL       string // Reference URL being cloned
	OutputDir string // Directory artifacts were written to
}

// Format returns a formatted error message with possible causes and suggestions.
// The context parameter is optional - pass nil for generic formatting.
func Format(err error, ctx *ErrorContext) string {
	if err == nil {
		return ""
	}
	if ctx == nil {
		ctx = &ErrorContext{}
	}

	var (
		cfgErr   *llm.ConfigError
		fetchErr *fetch.FetchError
		parseErr *analysis.AnalysisParseError
		noArt    *artifact.NoArtifactsError
		genErr   *generate.GenerationError
		travErr  *materialize.PathTraversalError
		writeErr *materialize.WriteError
		netErr   net.Error
	)

	errMsg := err.Error()
	switch {
	case errors.As(err, &cfgErr):
		return formatConfigError(errMsg, cfgErr)
	case errors.As(err, &fetchErr):
		return formatFetchError(errMsg, fetchErr)
	case errors.As(err, &parseErr):
		return formatAnalysisParseError(errMsg)
	case errors.As(err, &noArt):
		return formatNoArtifactsError(errMsg, noArt)
	case errors.As(err, &travErr):
		return formatPathTraversalError(errMsg)
	case errors.As(err, &writeErr):
		return formatWriteError(errMsg, ctx)
	case errors.As(err, &genErr) && isRateLimitError(errMsg):
		return formatRateLimitError(errMsg)
	case errors.As(err, &genErr) && isAuthError(errMsg):
		return formatAuthError(errMsg)
	case isRateLimitError(errMsg):
		return formatRateLimitError(errMsg)
	case errors.As(err, &netErr):
		return formatNetworkError(errMsg, netErr.Timeout())
	case isNetworkError(errMsg):
		return formatNetworkError(errMsg, false)
	case isPermissionError(errMsg):
		return formatWriteError(errMsg, ctx)
	}

	return errMsg
}

func section(sb *strings.Builder, title string, lines ...string) {
	sb.WriteString("\n" + title + ":\n")
	for _, l := range lines {
		sb.WriteString("  - " + l + "\n")
	}
}

func formatConfigError(errMsg string, err *llm.ConfigError) string {
	var sb strings.Builder
	sb.WriteString(errMsg + "\n")

	section(&sb, "Possible causes",
		"No API key is set for the "+err.Provider+" provider")

	switch err.Provider {
	case "gemini":
		section(&sb, "Suggestions",
			"Export GOOGLE_API_KEY (or GEMINI_API_KEY) before running sitegen",
			"Or run 'sitegen config set secrets.google_api_key <key>'")
	case "claude":
		section(&sb, "Suggestions",
			"Export ANTHROPIC_API_KEY before running sitegen",
			"Or run 'sitegen config set secrets.anthropic_api_key <key>'")
	default:
		section(&sb, "Suggestions",
			"Export ANTHROPIC_API_KEY or GOOGLE_API_KEY before running sitegen",
			"Or store a key with 'sitegen config set secrets.<name> <key>'")
	}
	return sb.String()
}

func formatFetchError(errMsg string, err *fetch.FetchError) string {
	var sb strings.Builder
	sb.WriteString(errMsg + "\n")

	switch {
	case err.StatusCode == 404 || err.StatusCode == 410:
		section(&sb, "Possible causes",
			"The page does not exist",
			"Typo in the URL")
		section(&sb, "Suggestions",
			"Open the URL in a browser to confirm it loads")
	case err.StatusCode == 401 || err.StatusCode == 403:
		section(&sb, "Possible causes",
			"The page requires authentication",
			"The site blocks automated clients")
		section(&sb, "Suggestions",
			"Save the page locally and analyze a publicly reachable copy")
	case err.StatusCode == 429:
		return formatRateLimitError(errMsg)
	case err.StatusCode >= 500:
		section(&sb, "Possible causes",
			"The site is temporarily unavailable")
		section(&sb, "Suggestions",
			"Try again in a few minutes")
	case err.StatusCode != 0:
		section(&sb, "Suggestions",
			"Check that the URL returns an HTML page")
	default:
		section(&sb, "Possible causes",
			"Network connectivity issue",
			"DNS resolution failure",
			"Invalid or non-HTTP URL",
			"Response body too large")
		section(&sb, "Suggestions",
			"Check the URL includes http:// or https://",
			"Check your internet connection",
			"Raise SITEGEN_MAX_BODY_BYTES for very large pages")
	}
	return sb.String()
}

func formatAnalysisParseError(errMsg string) string {
	var sb strings.Builder
	sb.WriteString(errMsg + "\n")

	section(&sb, "Possible causes",
		"The model answered with prose instead of JSON",
		"The answer was cut off at the token limit")
	section(&sb, "Suggestions",
		"Run the command again; model output varies between calls",
		"Write the analysis by hand and pass it with --analysis")
	return sb.String()
}

func formatNoArtifactsError(errMsg string, err *artifact.NoArtifactsError) string {
	var sb strings.Builder
	sb.WriteString(errMsg + "\n")

	if err.Found == 0 {
		section(&sb, "Possible causes",
			"The model ignored the <Component name=\"...\"> output format",
			"The model refused or returned a non-text answer")
	} else {
		section(&sb, "Possible causes",
			"Every block was rejected as not looking like code")
	}
	section(&sb, "Suggestions",
		"Run with --debug to log the raw response",
		"Run the command again; model output varies between calls")
	return sb.String()
}

func formatPathTraversalError(errMsg string) string {
	var sb strings.Builder
	sb.WriteString(errMsg + "\n")

	section(&sb, "Possible causes",
		"The model emitted a component name containing '/', '\\' or '..'")
	section(&sb, "Suggestions",
		"Nothing was written; run the command again")
	return sb.String()
}

func formatWriteError(errMsg string, ctx *ErrorContext) string {
	var sb strings.Builder
	sb.WriteString(errMsg + "\n")

	section(&sb, "Possible causes",
		"Insufficient permissions on the output directory",
		"The disk is full",
		"A directory exists where a component file should go")

	dir := ctx.OutputDir
	if dir == "" {
		dir = "<output dir>"
	}
	section(&sb, "Suggestions",
		"Check permissions: ls -la "+dir,
		"Choose another directory with -o")
	return sb.String()
}

func formatRateLimitError(errMsg string) string {
	var sb strings.Builder
	sb.WriteString(errMsg + "\n")

	section(&sb, "Possible causes",
		"Too many requests to the API")
	section(&sb, "Suggestions",
		"Wait a few minutes before retrying",
		"Use the other provider for this run with --provider, or change the order with 'sitegen config set llm.providers gemini,claude'")
	return sb.String()
}

func formatAuthError(errMsg string) string {
	var sb strings.Builder
	sb.WriteString(errMsg + "\n")

	section(&sb, "Possible causes",
		"The API key is invalid or revoked")
	section(&sb, "Suggestions",
		"Check ANTHROPIC_API_KEY or GOOGLE_API_KEY",
		"Run 'sitegen config list' to see which keys are configured")
	return sb.String()
}

func formatNetworkError(errMsg string, timeout bool) string {
	var sb strings.Builder
	sb.WriteString(errMsg + "\n")

	if timeout {
		section(&sb, "Possible causes",
			"Request timed out",
			"Slow or unstable network connection")
	} else {
		section(&sb, "Possible causes",
			"Network connectivity issue",
			"DNS resolution failure")
	}
	lines := []string{"Check your internet connection", "Try again in a few minutes"}
	if timeout {
		lines = append(lines, "Raise SITEGEN_API_TIMEOUT or SITEGEN_FETCH_TIMEOUT")
	}
	section(&sb, "Suggestions", lines...)
	return sb.String()
}

// isRateLimitError checks if the error message indicates a rate limit
func isRateLimitError(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "rate limit") ||
		strings.Contains(lower, "rate_limit") ||
		strings.Contains(lower, "too many requests") ||
		strings.Contains(lower, "429") ||
		strings.Contains(lower, "overloaded")
}

// isAuthError checks if the error message indicates rejected credentials
func isAuthError(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "401") ||
		strings.Contains(lower, "authentication") ||
		strings.Contains(lower, "invalid x-api-key") ||
		strings.Contains(lower, "api key not valid")
}

// isNetworkError checks if the error message indicates a network issue
func isNetworkError(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "connection refused") ||
		strings.Contains(lower, "connection reset") ||
		strings.Contains(lower, "no such host") ||
		strings.Contains(lower, "network is unreachable") ||
		strings.Contains(lower, "dial tcp") ||
		strings.Contains(lower, "i/o timeout")
}

// isPermissionError checks if the error message indicates a permission issue
func isPermissionError(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "permission denied") ||
		strings.Contains(lower, "access denied") ||
		strings.Contains(lower, "operation not permitted")
}
