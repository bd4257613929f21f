package render

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Elements that end a line of text when flattened
const blockElements = "p, div, li, h1, h2, h3, h4, h5, h6, blockquote, pre, tr, article, section"

// StripTags flattens markup in feed text to plain text. Scripts and styles
// are dropped, entities are decoded and block elements end a line.
func StripTags(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}

	doc.Find("script, style").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find(blockElements).AppendHtml("\n")

	return tidyLines(doc.Text())
}

// tidyLines collapses runs of whitespace inside lines and keeps at most one
// empty line between paragraphs.
func tidyLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false

	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}

// singleLine flattens s for use in a table cell
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
