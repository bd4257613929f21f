package feeds

import (
	"context"
	"errors"
	"net/url"

	"github.com/mmcdole/gofeed"
	log "github.com/sirupsen/logrus"
)

// ProbeResult summarizes a feed that parsed successfully
type ProbeResult struct {
	Title    string
	FeedType string
	Items    int
}

// Probe parses the whole feed once with gofeed to confirm the URL serves a
// feed before it is stored. Errors are mapped onto the same failure classes
// as Decode.
func (d *Decoder) Probe(ctx context.Context, feedURL string) (*ProbeResult, error) {
	parser := gofeed.NewParser()
	parser.Client = d.client
	parser.UserAgent = d.userAgent

	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		err = classifyProbeError(feedURL, err)
		fetchesTotal.WithLabelValues(Kind(err)).Inc()
		return nil, err
	}
	fetchesTotal.WithLabelValues("ok").Inc()

	log.WithFields(log.Fields{
		"feed":  feedURL,
		"title": feed.Title,
		"type":  feed.FeedType,
		"items": len(feed.Items),
	}).Debug("Probed feed")

	return &ProbeResult{
		Title:    feed.Title,
		FeedType: feed.FeedType,
		Items:    len(feed.Items),
	}, nil
}

func classifyProbeError(feedURL string, err error) error {
	var httpErr gofeed.HTTPError
	if errors.As(err, &httpErr) {
		return &BadStatusError{
			URL:        feedURL,
			StatusCode: httpErr.StatusCode,
			Status:     httpErr.Status,
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &NetworkError{URL: feedURL, Err: err}
	}

	return &DecodeError{URL: feedURL, Err: err}
}
