package render

import (
	"strconv"

	"rssreader/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/samber/lo"
)

const summaryWidth = 80

var wrapStyle = lipgloss.NewStyle().Width(summaryWidth)

func newTable() *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

// FeedsTable lists the stored feeds in file order
func FeedsTable(feeds []string) string {
	rows := lo.Map(feeds, func(f string, _ int) []string {
		return []string{f}
	})
	return newTable().Headers("Feeds").Rows(rows...).String()
}

// DescriptionTable shows an article's title and its summary as plain text
func DescriptionTable(a models.Article) string {
	summary := StripTags(a.Summary)
	if summary == "" {
		summary = "(no summary)"
	}

	return newTable().
		Rows(
			[]string{"Title", singleLine(a.Title)},
			[]string{"Summary", wrapStyle.Render(summary)},
		).
		BorderRow(true).
		String()
}

// ScanTable summarizes a scan: per feed the article count and the newest
// title, or the error that stopped it.
func ScanTable(results []models.ScanResult) string {
	rows := lo.Map(results, func(r models.ScanResult, _ int) []string {
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
		}
		return []string{
			r.Feed,
			strconv.Itoa(len(r.Articles)),
			ansi.Truncate(singleLine(NewestTitle(r.Articles)), articleColumns[0].width, "…"),
			status,
		}
	})

	return newTable().
		Headers("Feed", "Articles", "Newest", "Status").
		Rows(rows...).
		String()
}

// NewestTitle returns the title of the article with the latest parsed date.
// Feeds without parseable dates fall back to the first article.
func NewestTitle(articles []models.Article) string {
	if len(articles) == 0 {
		return ""
	}

	dated := lo.Filter(articles, func(a models.Article, _ int) bool {
		return a.Published != nil
	})
	if len(dated) == 0 {
		return articles[0].Title
	}

	newest := lo.MaxBy(dated, func(a, b models.Article) bool {
		return a.Published.After(*b.Published)
	})
	return newest.Title
}
