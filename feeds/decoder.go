package feeds

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	xpp "github.com/mmcdole/goxpp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/html/charset"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "rssreader/1.0"

	acceptHeader = "application/rss+xml, application/atom+xml, application/rdf+xml;q=0.9, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.1"
)

// DecoderConfig holds settings for feed fetches
type DecoderConfig struct {
	// Bound on the whole fetch including reading the body
	Timeout   time.Duration
	UserAgent string
	// Extra attempts after a failed connection. Bad statuses are never retried.
	Retries int
	// Optional client, mainly for tests. Timeout is ignored when set.
	Client *http.Client
}

// Decoder fetches feeds and decodes them into article streams. It holds only
// configuration and is safe for concurrent use.
type Decoder struct {
	client         *http.Client
	userAgent      string
	retries        int
	initialBackoff time.Duration
}

func NewDecoder(cfg DecoderConfig) *Decoder {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Decoder{
		client:         client,
		userAgent:      cfg.UserAgent,
		retries:        cfg.Retries,
		initialBackoff: 200 * time.Millisecond,
	}
}

// Decode fetches feedURL and returns a stream positioned before the first
// entry. Nothing beyond the response headers has been read when it returns.
// The caller must Close the stream.
func (d *Decoder) Decode(ctx context.Context, feedURL string) (*Stream, error) {
	resp, err := d.get(ctx, feedURL)
	if err != nil {
		fetchesTotal.WithLabelValues(Kind(err)).Inc()
		log.WithFields(log.Fields{
			"feed":  feedURL,
			"error": err,
		}).Warn("Feed fetch failed")
		return nil, err
	}
	fetchesTotal.WithLabelValues("ok").Inc()

	body := &trackingReader{r: resp.Body}
	parser := xpp.NewXMLPullParser(newEntityReader(body), true, charset.NewReaderLabel)

	return &Stream{
		url:    feedURL,
		body:   resp.Body,
		reader: body,
		parser: parser,
	}, nil
}

// get performs the request, retrying connection failures with exponential
// backoff. The returned response always has a 2xx status.
func (d *Decoder) get(ctx context.Context, feedURL string) (*http.Response, error) {
	var resp *http.Response

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
		if err != nil {
			return backoff.Permanent(&NetworkError{URL: feedURL, Err: err})
		}
		req.Header.Set("User-Agent", d.userAgent)
		req.Header.Set("Accept", acceptHeader)

		start := time.Now()
		r, err := d.client.Do(req)
		if err != nil {
			return &NetworkError{URL: feedURL, Err: err}
		}
		fetchDuration.Observe(time.Since(start).Seconds())

		if r.StatusCode < 200 || r.StatusCode >= 300 {
			// Drain a little so the connection can be reused
			_, _ = io.CopyN(io.Discard, r.Body, 4096)
			r.Body.Close()
			return backoff.Permanent(&BadStatusError{
				URL:        feedURL,
				StatusCode: r.StatusCode,
				Status:     r.Status,
			})
		}

		resp = r
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = d.initialBackoff
	b.MaxInterval = 5 * time.Second
	b.Multiplier = 2

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(d.retries)), ctx)

	notify := func(err error, wait time.Duration) {
		log.WithFields(log.Fields{
			"feed":  feedURL,
			"error": err,
			"wait":  wait,
		}).Info("Retrying feed fetch")
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		// The backoff returns the bare context error when cancelled between attempts
		if Kind(err) == "error" {
			err = &NetworkError{URL: feedURL, Err: err}
		}
		return nil, err
	}

	return resp, nil
}

// trackingReader remembers the first read error of the response body so
// a dropped connection is not mistaken for malformed XML.
type trackingReader struct {
	r   io.Reader
	err error
}

func (t *trackingReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && err != io.EOF && t.err == nil {
		t.err = err
	}
	return n, err
}
