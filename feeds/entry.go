package feeds

import (
	"encoding/xml"
	"strings"

	"rssreader/models"

	"github.com/araddon/dateparse"
	"github.com/samber/lo"
)

const (
	rss090NS  = "http://my.netscape.com/rdf/simple/0.9/"
	rss10NS   = "http://purl.org/rss/1.0/"
	atom03NS  = "http://purl.org/atom/ns#"
	atom10NS  = "http://www.w3.org/2005/Atom"
	dcNS      = "http://purl.org/dc/elements/1.1/"
	contentNS = "http://purl.org/rss/1.0/modules/content/"
)

// Namespaces an element may carry to count as part of a format. Prefixes are
// listed too because the lenient decoder leaves undeclared prefixes as-is.
var (
	rssSpaces     = []string{"", rss10NS, rss090NS}
	atomSpaces    = []string{atom10NS, atom03NS, ""}
	dcSpaces      = []string{dcNS, "dc"}
	contentSpaces = []string{contentNS, "content"}
)

// node is a generic element tree. Entries are decoded into it first so the
// mapping does not depend on namespace prefixes chosen by the publisher.
type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Inner    string     `xml:",innerxml"`
	Children []node     `xml:",any"`
}

func (n *node) attr(local string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return strings.TrimSpace(a.Value)
		}
	}
	return ""
}

func (n *node) children(local string, spaces []string) []*node {
	var found []*node
	for i := range n.Children {
		c := &n.Children[i]
		if c.XMLName.Local == local && lo.Contains(spaces, c.XMLName.Space) {
			found = append(found, c)
		}
	}
	return found
}

func (n *node) child(local string, spaces []string) *node {
	for i := range n.Children {
		c := &n.Children[i]
		if c.XMLName.Local == local && lo.Contains(spaces, c.XMLName.Space) {
			return c
		}
	}
	return nil
}

// text returns the trimmed character data of the first matching child
func (n *node) text(local string, spaces []string) string {
	if c := n.child(local, spaces); c != nil {
		return strings.TrimSpace(c.Text)
	}
	return ""
}

// atomText honours the Atom type attribute: xhtml content is markup kept
// verbatim, text and html content is character data.
func (n *node) atomText() string {
	if n == nil {
		return ""
	}
	if n.attr("type") == "xhtml" {
		return strings.TrimSpace(n.Inner)
	}
	return strings.TrimSpace(n.Text)
}

func firstNonEmpty(values ...string) string {
	v, _ := lo.Find(values, func(s string) bool { return s != "" })
	return v
}

func nonEmptyTexts(nodes []*node) []string {
	return lo.FilterMap(nodes, func(n *node, _ int) (string, bool) {
		v := strings.TrimSpace(n.Text)
		return v, v != ""
	})
}

func withPublished(a models.Article) models.Article {
	if a.PublicationDate == "" {
		return a
	}
	if t, err := dateparse.ParseAny(a.PublicationDate); err == nil {
		a.Published = &t
	}
	return a
}

func rssArticle(n *node) models.Article {
	description := n.text("description", rssSpaces)

	categories := append(
		nonEmptyTexts(n.children("category", rssSpaces)),
		nonEmptyTexts(n.children("subject", dcSpaces))...,
	)

	return withPublished(models.Article{
		Title:           n.text("title", rssSpaces),
		Author:          firstNonEmpty(n.text("author", rssSpaces), n.text("creator", dcSpaces)),
		Categories:      lo.Uniq(categories),
		PublicationDate: firstNonEmpty(n.text("pubDate", rssSpaces), n.text("date", dcSpaces)),
		Summary:         description,
		Description:     firstNonEmpty(n.text("encoded", contentSpaces), description),
		Link:            n.text("link", rssSpaces),
		GUID:            firstNonEmpty(n.text("guid", rssSpaces), n.attr("about")),
	})
}

func atomArticle(n *node) models.Article {
	var author string
	if a := n.child("author", atomSpaces); a != nil {
		author = a.text("name", atomSpaces)
	}

	categories := lo.FilterMap(n.children("category", atomSpaces), func(c *node, _ int) (string, bool) {
		v := firstNonEmpty(c.attr("term"), c.attr("label"), strings.TrimSpace(c.Text))
		return v, v != ""
	})

	var link string
	for _, l := range n.children("link", atomSpaces) {
		rel := l.attr("rel")
		if rel == "" || rel == "alternate" {
			link = l.attr("href")
			break
		}
	}

	summary := n.child("summary", atomSpaces).atomText()
	content := n.child("content", atomSpaces).atomText()

	// Atom 0.3 used issued and modified
	date := firstNonEmpty(
		n.text("published", atomSpaces),
		n.text("issued", atomSpaces),
		n.text("updated", atomSpaces),
		n.text("modified", atomSpaces),
	)

	return withPublished(models.Article{
		Title:           n.child("title", atomSpaces).atomText(),
		Author:          author,
		Categories:      lo.Uniq(categories),
		PublicationDate: date,
		Summary:         firstNonEmpty(summary, content),
		Description:     firstNonEmpty(content, summary),
		Link:            link,
		GUID:            n.text("id", atomSpaces),
	})
}
