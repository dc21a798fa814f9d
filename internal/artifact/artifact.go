// Package artifact extracts named code artifacts from free-form LLM text.
//
// The generator is told to wrap each component as
//
//	<Component name="Hero">...</Component>
//
// Only that exact, case-sensitive anchor delimits an artifact. Other angle
// brackets in a body (JSX, comparisons) are left alone. Tags are assumed
// not to nest.
package artifact

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultSuffix is appended to a component name to form its file name.
const DefaultSuffix = ".tsx"

// maxResponse bounds the raw response kept on a NoArtifactsError.
const maxResponse = 1000

// Set maps file names (component name plus suffix) to trimmed source code.
// A Set produced by Parse is never empty.
type Set map[string]string

// Names returns the keys in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Rejection records one artifact dropped during parsing.
type Rejection struct {
	Key    string
	Reason string
}

func (r Rejection) String() string {
	return r.Key + ": " + r.Reason
}

// Rejection reasons.
const (
	ReasonNotCode   = "does not look like code"
	ReasonDuplicate = "duplicate name, replaced by a later block"
)

// NoArtifactsError means no artifact survived validation. Response holds a
// bounded prefix of the raw text.
type NoArtifactsError struct {
	Response string
	Found    int
	Rejected int
}

func (e *NoArtifactsError) Error() string {
	if e.Found == 0 {
		return "no valid components extracted from response: no <Component> tags found"
	}
	return fmt.Sprintf("no valid components extracted from response: %d of %d blocks rejected", e.Rejected, e.Found)
}

func bounded(s string) string {
	if len(s) <= maxResponse {
		return s
	}
	cut := maxResponse
	for cut > 0 && s[cut]&0xC0 == 0x80 {
		cut--
	}
	return s[:cut] + "..."
}

// Block is one tagged region found in a response, before validation.
type Block struct {
	Name string
	Body string
}

// Scanner finds tagged blocks in response text, in order of appearance.
type Scanner interface {
	Scan(text string) []Block
}

// Validator decides whether a trimmed body is plausible source code.
type Validator interface {
	LooksLikeCode(body string) bool
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(body string) bool

func (f ValidatorFunc) LooksLikeCode(body string) bool { return f(body) }

// MarkerValidator accepts a body containing any of Markers as a substring.
type MarkerValidator struct {
	Markers []string
}

// DefaultMarkers are structural markers of a TSX component.
var DefaultMarkers = []string{"interface", "export default function", "return"}

func (v MarkerValidator) LooksLikeCode(body string) bool {
	markers := v.Markers
	if markers == nil {
		markers = DefaultMarkers
	}
	for _, m := range markers {
		if strings.Contains(body, m) {
			return true
		}
	}
	return false
}
