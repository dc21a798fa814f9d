package artifact

import (
	"strings"

	"github.com/tsukumogami/sitegen/internal/log"
)

// Result is the outcome of a successful parse.
type Result struct {
	Artifacts  Set
	Rejections []Rejection

	// Duplicates lists keys emitted more than once. The last valid block
	// for each key is the one kept.
	Duplicates []string
}

// Parser turns generator output into an artifact Set.
type Parser struct {
	Suffix    string
	Scanner   Scanner
	Validator Validator
	Logger    log.Logger
}

// NewParser returns a Parser with the default suffix, scanner and validator.
func NewParser() *Parser {
	return &Parser{
		Suffix:    DefaultSuffix,
		Scanner:   TagScanner{},
		Validator: MarkerValidator{},
	}
}

// Parse parses text with a default Parser.
func Parse(text string) (*Result, error) {
	return NewParser().Parse(text)
}

// Parse extracts every tagged block, trims it, and keeps those the
// validator accepts. Rejected blocks are logged and returned; they do not
// fail the parse. If nothing survives, Parse returns *NoArtifactsError.
//
// When a name repeats, the later accepted block replaces the earlier one
// and the key is reported in Result.Duplicates.
func (p *Parser) Parse(text string) (*Result, error) {
	suffix, scanner, validator, logger := p.Suffix, p.Scanner, p.Validator, p.Logger
	if scanner == nil {
		scanner = TagScanner{}
	}
	if validator == nil {
		validator = MarkerValidator{}
	}
	if logger == nil {
		logger = log.Default()
	}

	blocks := scanner.Scan(text)
	res := &Result{Artifacts: make(Set, len(blocks))}

	for _, blk := range blocks {
		key := blk.Name + suffix
		body := strings.TrimSpace(blk.Body)

		if !validator.LooksLikeCode(body) {
			logger.Warn("skipping artifact", "key", key, "reason", ReasonNotCode, "chars", len(body))
			res.Rejections = append(res.Rejections, Rejection{Key: key, Reason: ReasonNotCode})
			continue
		}

		if _, seen := res.Artifacts[key]; seen {
			logger.Warn("artifact emitted more than once, keeping the last", "key", key)
			res.Duplicates = append(res.Duplicates, key)
			res.Rejections = append(res.Rejections, Rejection{Key: key, Reason: ReasonDuplicate})
		}
		res.Artifacts[key] = body
		logger.Debug("extracted artifact", "key", key, "chars", len(body))
	}

	if len(res.Artifacts) == 0 {
		return nil, &NoArtifactsError{
			Response: bounded(text),
			Found:    len(blocks),
			Rejected: len(res.Rejections),
		}
	}
	return res, nil
}
