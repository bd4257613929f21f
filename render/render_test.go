package render_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"rssreader/models"
	"rssreader/render"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripTags(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain text", input: "Just text", expected: "Just text"},
		{name: "inline markup", input: "<p>Hello <b>world</b></p>", expected: "Hello world"},
		{name: "entities", input: "Fish &amp; chips &lt;3", expected: "Fish & chips <3"},
		{name: "paragraphs", input: "<p>one</p><p>two</p>", expected: "one\ntwo"},
		{name: "line breaks", input: "a<br>b<br/>c", expected: "a\nb\nc"},
		{name: "scripts and styles", input: "<style>p{}</style><p>text</p><script>alert(1)</script>", expected: "text"},
		{name: "whitespace", input: "  <div>\n\t spaced   out \n</div>  ", expected: "spaced out"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, render.StripTags(tt.input))
		})
	}
}

func TestArticleWriter(t *testing.T) {
	published := time.Date(2006, 1, 2, 15, 4, 5, 0, time.FixedZone("", -7*60*60))
	var buf bytes.Buffer
	w := render.NewArticleWriter(&buf)

	require.NoError(t, w.Write(models.Article{
		Title:           strings.Repeat("long title ", 10),
		Author:          "Alice",
		Categories:      []string{"Go", "Feeds"},
		PublicationDate: "Mon, 02 Jan 2006 15:04:05 -0700",
		Published:       &published,
	}))
	require.NoError(t, w.Write(models.Article{Title: "Short\nline", PublicationDate: "sometime\nlast week"}))
	require.NoError(t, w.Close())
	assert.Equal(t, 2, w.Rows())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)

	assert.Contains(t, lines[0], "Title")
	assert.Contains(t, lines[0], "Publication date")

	first, second := lines[2], lines[3]
	assert.Contains(t, first, "…")
	assert.Contains(t, first, "Alice")
	assert.Contains(t, first, "Go, Feeds")
	assert.Contains(t, second, "Short line")
	assert.Contains(t, first, "2006-01-02 15:04 -0700")
	assert.Contains(t, second, "sometime last week")

	rowWidth := 55 + 18 + 30 + 25 + 3*3
	assert.Equal(t, rowWidth, ansi.StringWidth(first))
	assert.Equal(t, rowWidth, ansi.StringWidth(second))
	assert.Equal(t, rowWidth, ansi.StringWidth(lines[4]))
}

func TestArticleWriterEmptyListing(t *testing.T) {
	var buf bytes.Buffer
	w := render.NewArticleWriter(&buf)

	require.NoError(t, w.Close())
	assert.Contains(t, buf.String(), "Author")
	assert.Equal(t, 0, w.Rows())
}

func TestArticle(t *testing.T) {
	var buf bytes.Buffer

	err := render.Article(&buf, models.Article{
		Title:           "Headline",
		Author:          "Bob",
		PublicationDate: "2024-01-01",
	}, "Body text")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Headline")
	assert.Contains(t, out, "Bob")
	assert.Contains(t, out, "2024-01-01")
	assert.True(t, strings.HasSuffix(out, "Body text\n"))
}

func TestFeedsTable(t *testing.T) {
	out := render.FeedsTable([]string{"http://a.example/rss", "http://b.example/rss"})

	assert.Contains(t, out, "Feeds")
	assert.Less(t, strings.Index(out, "http://a.example/rss"), strings.Index(out, "http://b.example/rss"))
}

func TestDescriptionTable(t *testing.T) {
	out := render.DescriptionTable(models.Article{
		Title:   "Headline",
		Summary: "<p>Some <i>summary</i></p>",
	})

	assert.Contains(t, out, "Headline")
	assert.Contains(t, out, "Some summary")
	assert.NotContains(t, out, "<p>")

	empty := render.DescriptionTable(models.Article{Title: "Nothing"})
	assert.Contains(t, empty, "(no summary)")
}

func TestScanTable(t *testing.T) {
	out := render.ScanTable([]models.ScanResult{
		{Feed: "http://a.example/rss", Articles: []models.Article{{Title: "one"}, {Title: "two"}}},
		{Feed: "http://b.example/rss", Err: errors.New("fetch failed")},
	})

	assert.Contains(t, out, "http://a.example/rss")
	assert.Contains(t, out, "one")
	assert.Contains(t, out, "fetch failed")
}

func TestNewestTitle(t *testing.T) {
	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(24 * time.Hour)

	tests := []struct {
		name     string
		articles []models.Article
		expected string
	}{
		{name: "empty", articles: nil, expected: ""},
		{name: "no dates", articles: []models.Article{{Title: "a"}, {Title: "b"}}, expected: "a"},
		{
			name: "latest date wins",
			articles: []models.Article{
				{Title: "old", Published: &older},
				{Title: "undated"},
				{Title: "new", Published: &newer},
			},
			expected: "new",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, render.NewestTitle(tt.articles))
		})
	}
}
