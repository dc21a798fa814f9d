package fetch

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// zeroWidthChars have no visual width and can hide text from a human reader
// while still reaching the LLM.
var zeroWidthChars = map[rune]bool{
	'\u200B': true, // zero width space
	'\u200C': true, // zero width non-joiner
	'\u200D': true, // zero width joiner
	'\uFEFF': true, // byte order mark
	'\u2060': true, // word joiner
	'\u200E': true, // left-to-right mark
	'\u200F': true, // right-to-left mark
}

// skippedTags never contribute visible text.
var skippedTags = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
}

// Parse extracts title, h1-h3 headings (document order), body text capped
// at textLimit runes, and the number of section-like elements: <section>
// or any element whose class attribute contains "section".
func Parse(pageURL, doc string, textLimit int) *Page {
	page := &Page{URL: pageURL, HTML: doc}

	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		page.BodyText = truncateRunes(clean(doc), textLimit)
		return page
	}

	var body *html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skippedTags[n.DataAtom] {
				return
			}
			switch n.DataAtom {
			case atom.Title:
				if page.Title == "" {
					page.Title = clean(textOf(n))
				}
			case atom.H1, atom.H2, atom.H3:
				if h := clean(textOf(n)); h != "" {
					page.Headings = append(page.Headings, h)
				}
			case atom.Body:
				body = n
			}
			if isSectionLike(n) {
				page.SectionCount++
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	if body != nil {
		page.BodyText = truncateRunes(clean(textOf(body)), textLimit)
	}
	return page
}

func isSectionLike(n *html.Node) bool {
	if n.DataAtom == atom.Section {
		return true
	}
	for _, a := range n.Attr {
		if a.Key == "class" && strings.Contains(a.Val, "section") {
			return true
		}
	}
	return false
}

// textOf concatenates descendant text, skipping script-like elements and
// comments. Block boundaries become spaces so words do not merge.
func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
		case html.CommentNode:
			return
		case html.ElementNode:
			if skippedTags[n.DataAtom] {
				return
			}
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// clean removes zero-width characters and collapses whitespace.
func clean(s string) string {
	s = strings.Map(func(r rune) rune {
		if zeroWidthChars[r] {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
