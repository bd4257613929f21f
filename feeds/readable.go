package feeds

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"codeberg.org/readeck/go-readability/v2"
	log "github.com/sirupsen/logrus"
)

// Readable fetches the page an article links to and extracts its main text
func (d *Decoder) Readable(ctx context.Context, link string) (string, error) {
	u, err := url.ParseRequestURI(link)
	if err != nil {
		return "", fmt.Errorf("invalid article link %q: %w", link, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", &NetworkError{URL: link, Err: err}
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return "", &NetworkError{URL: link, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &BadStatusError{URL: link, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	p := readability.NewParser()
	article, err := p.Parse(resp.Body, u)
	if err != nil {
		return "", &DecodeError{URL: link, Err: fmt.Errorf("readability failed to parse article: %w", err)}
	}

	b := &strings.Builder{}
	if err := article.RenderText(b); err != nil {
		return "", &DecodeError{URL: link, Err: fmt.Errorf("readability failed to render article text: %w", err)}
	}

	log.WithFields(log.Fields{
		"link":  link,
		"title": article.Title(),
	}).Debug("Extracted readable article")

	return strings.TrimSpace(b.String()), nil
}
