package artifact

import "regexp"

// componentPattern matches one non-nested component block. The body match
// is non-greedy so adjacent blocks stay separate.
var componentPattern = regexp.MustCompile(`<Component name="([^"]+)">([\s\S]*?)</Component>`)

// TagScanner finds <Component name="...">...</Component> blocks.
type TagScanner struct{}

func (TagScanner) Scan(text string) []Block {
	matches := componentPattern.FindAllStringSubmatch(text, -1)
	blocks := make([]Block, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, Block{Name: m[1], Body: m[2]})
	}
	return blocks
}
