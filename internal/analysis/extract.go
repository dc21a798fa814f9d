package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// maxSnippet bounds the response text kept on an AnalysisParseError.
const maxSnippet = 500

// AnalysisParseError reports an LLM response that did not decode as a
// structural analysis after fence stripping.
type AnalysisParseError struct {
	Snippet string
	Err     error
}

func (e *AnalysisParseError) Error() string {
	return fmt.Sprintf("failed to parse analysis response: %v (response: %q)", e.Err, e.Snippet)
}

func (e *AnalysisParseError) Unwrap() error { return e.Err }

// Extractor turns raw LLM text into a StructuralAnalysis. Implementations
// return *AnalysisParseError on malformed input.
type Extractor interface {
	Extract(text string) (*StructuralAnalysis, error)
}

// FenceExtractor accepts a bare JSON object or one wrapped in a markdown
// code fence labeled json or unlabeled. When the fenced text still fails to
// decode it retries on the span from the first '{' to the last '}', which
// recovers answers that wrap the object in prose.
type FenceExtractor struct{}

func (FenceExtractor) Extract(text string) (*StructuralAnalysis, error) {
	payload := StripFence(text)

	a, err := decodeObject(payload)
	if err != nil {
		start := strings.IndexByte(payload, '{')
		end := strings.LastIndexByte(payload, '}')
		if start >= 0 && end > start {
			if retry, rerr := decodeObject(payload[start : end+1]); rerr == nil {
				return retry, nil
			}
		}
		return nil, &AnalysisParseError{Snippet: snippet(text), Err: err}
	}
	return a, nil
}

var errNotObject = errors.New("response is not a JSON object")

// decodeObject decodes s, which must hold exactly one JSON object. A bare
// null, array or string is rejected rather than yielding an empty analysis.
func decodeObject(s string) (*StructuralAnalysis, error) {
	if !strings.HasPrefix(s, "{") {
		return nil, errNotObject
	}
	var a StructuralAnalysis
	if err := json.Unmarshal([]byte(s), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// StripFence trims text and removes a leading ```json or ``` fence line
// together with its closing fence.
func StripFence(text string) string {
	s := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(s, "```json"):
		s = s[len("```json"):]
	case strings.HasPrefix(s, "```"):
		s = s[len("```"):]
	default:
		return s
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func snippet(s string) string {
	if len(s) <= maxSnippet {
		return s
	}
	// Back up to a rune boundary.
	cut := maxSnippet
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }
