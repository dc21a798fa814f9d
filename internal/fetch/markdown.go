package fetch

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
)

var (
	sanitizer = bluemonday.UGCPolicy()

	mdConverter = converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
)

// toMarkdown renders sanitized HTML as markdown capped at limit runes.
// Empty or failed conversions return fallback.
func toMarkdown(doc, pageURL, fallback string, limit int) string {
	if doc == "" {
		return fallback
	}
	safe := sanitizer.Sanitize(doc)
	md, err := mdConverter.ConvertString(safe, converter.WithDomain(pageURL))
	if err != nil || strings.TrimSpace(md) == "" {
		return fallback
	}
	return truncateRunes(strings.TrimSpace(md), limit)
}
