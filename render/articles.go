package render

import (
	"fmt"
	"io"
	"strings"

	"rssreader/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

type column struct {
	title string
	width int
}

var articleColumns = []column{
	{title: "Title", width: 55},
	{title: "Author", width: 18},
	{title: "Category", width: 30},
	{title: "Publication date", width: 25},
}

const (
	columnSeparator   = " │ "
	listingDateLayout = "2006-01-02 15:04 -0700"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true).Underline(true)
	metaStyle   = lipgloss.NewStyle().Faint(true)
)

// ArticleWriter prints one fixed width row per article as soon as it is
// written, so a listing shows up while the feed is still downloading.
type ArticleWriter struct {
	w      io.Writer
	header bool
	rows   int
}

func NewArticleWriter(w io.Writer) *ArticleWriter {
	return &ArticleWriter{w: w}
}

// Write prints the header on first use and then the article's row
func (aw *ArticleWriter) Write(a models.Article) error {
	if err := aw.writeHeader(); err != nil {
		return err
	}

	_, err := fmt.Fprintln(aw.w, row(
		singleLine(a.Title),
		singleLine(a.Author),
		singleLine(strings.Join(a.Categories, ", ")),
		listingDate(a),
	))
	if err == nil {
		aw.rows++
	}
	return err
}

// listingDate fits the date into its column. Dates that parsed are shown
// in a short form keeping the offset, anything else as the feed wrote it.
func listingDate(a models.Article) string {
	if a.Published != nil {
		return a.Published.Format(listingDateLayout)
	}
	return singleLine(a.PublicationDate)
}

// Close ends the listing. An empty listing still gets its header.
func (aw *ArticleWriter) Close() error {
	if err := aw.writeHeader(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(aw.w, rule())
	return err
}

// Rows returns the number of article rows written
func (aw *ArticleWriter) Rows() int {
	return aw.rows
}

func (aw *ArticleWriter) writeHeader() error {
	if aw.header {
		return nil
	}
	aw.header = true

	titles := make([]string, len(articleColumns))
	for i, c := range articleColumns {
		titles[i] = c.title
	}

	_, err := fmt.Fprintf(aw.w, "%s\n%s\n", headerStyle.Render(row(titles...)), rule())
	return err
}

func row(values ...string) string {
	cells := make([]string, len(articleColumns))
	for i, c := range articleColumns {
		var v string
		if i < len(values) {
			v = values[i]
		}
		cells[i] = cell(v, c.width)
	}
	return strings.Join(cells, columnSeparator)
}

// cell truncates v to width terminal cells and pads it to exactly width
func cell(v string, width int) string {
	v = ansi.Truncate(v, width, "…")
	if pad := width - ansi.StringWidth(v); pad > 0 {
		v += strings.Repeat(" ", pad)
	}
	return v
}

func rule() string {
	width := 0
	for _, c := range articleColumns {
		width += c.width
	}
	width += ansi.StringWidth(columnSeparator) * (len(articleColumns) - 1)
	return strings.Repeat("─", width)
}

// Article prints the read view of an article: its title, a line with
// author and date when known, and the body as plain text.
func Article(w io.Writer, a models.Article, body string) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render(singleLine(a.Title)))
	b.WriteString("\n")

	meta := make([]string, 0, 2)
	if a.Author != "" {
		meta = append(meta, singleLine(a.Author))
	}
	if a.PublicationDate != "" {
		meta = append(meta, singleLine(a.PublicationDate))
	}
	if len(meta) > 0 {
		b.WriteString(metaStyle.Render(strings.Join(meta, " · ")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}
