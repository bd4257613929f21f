package feeds

import (
	"errors"
	"io"
	"iter"
	"strings"

	"rssreader/models"

	xpp "github.com/mmcdole/goxpp"
	log "github.com/sirupsen/logrus"
)

// format describes how entries of one syndication format are found and mapped
type format struct {
	name  string
	entry string
	build func(*node) models.Article
}

var (
	formatRSS  = &format{name: "rss", entry: "item", build: rssArticle}
	formatAtom = &format{name: "atom", entry: "entry", build: atomArticle}
)

// formatForRoot picks the entry format from the document element:
// <rss> and <rdf:RDF> hold items, <feed> holds entries.
func formatForRoot(local string) *format {
	switch strings.ToLower(local) {
	case "rss", "rdf":
		return formatRSS
	case "feed":
		return formatAtom
	default:
		return nil
	}
}

// Stream is a single-pass sequence of articles decoded from one fetch.
// Each call to Next reads the body only up to the end of the next entry, so
// consumers see records while the rest of the document is still in flight.
// A Stream is not safe for concurrent use.
type Stream struct {
	url    string
	body   io.ReadCloser
	reader *trackingReader
	parser *xpp.XMLPullParser
	format *format
	count  int
	err    error
	closed bool
}

// URL returns the feed the stream was fetched from
func (s *Stream) URL() string {
	return s.url
}

// Count returns how many articles have been yielded so far
func (s *Stream) Count() int {
	return s.count
}

// Next returns the next article in document order. It returns io.EOF after
// the last entry and a *DecodeError or *NetworkError if the body breaks off;
// once an error has been returned every later call returns it again.
func (s *Stream) Next() (models.Article, error) {
	if s.err != nil {
		return models.Article{}, s.err
	}

	if s.format == nil {
		f, err := s.detect()
		if err != nil {
			return models.Article{}, s.fail(err)
		}
		s.format = f
	}

	for {
		event, err := s.parser.Next()
		if err != nil {
			return models.Article{}, s.fail(err)
		}

		switch event {
		case xpp.EndDocument:
			s.finish()
			return models.Article{}, io.EOF
		case xpp.StartTag:
			if s.parser.Name != s.format.entry {
				continue
			}

			var n node
			if err := s.parser.DecodeElement(&n); err != nil {
				return models.Article{}, s.fail(err)
			}

			s.count++
			articlesDecoded.Inc()
			return s.format.build(&n), nil
		}
	}
}

// All adapts the stream to a range-over-func sequence. Iteration stops after
// the last article, or after yielding a terminal error with a zero article.
func (s *Stream) All() iter.Seq2[models.Article, error] {
	return func(yield func(models.Article, error) bool) {
		for {
			article, err := s.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(models.Article{}, err)
				return
			}
			if !yield(article, nil) {
				return
			}
		}
	}
}

// Close releases the response body. It is safe to call more than once.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.body.Close()
}

func (s *Stream) detect() (*format, error) {
	for {
		event, err := s.parser.Next()
		if err != nil {
			return nil, err
		}

		switch event {
		case xpp.EndDocument:
			return nil, errEmptyDocument
		case xpp.StartTag:
			f := formatForRoot(s.parser.Name)
			if f == nil {
				return nil, errUnknownFormat
			}

			log.WithFields(log.Fields{
				"feed":   s.url,
				"format": f.name,
			}).Debug("Detected feed format")
			return f, nil
		}
	}
}

func (s *Stream) finish() {
	s.err = io.EOF
	if err := s.Close(); err != nil {
		log.WithFields(log.Fields{
			"feed":  s.url,
			"error": err,
		}).Debug("Could not close feed body")
	}
}

// fail records err as the terminal state. Read failures of the body are
// reported as network errors, everything else as a decode error.
func (s *Stream) fail(err error) error {
	if s.reader.err != nil {
		s.err = &NetworkError{URL: s.url, Err: s.reader.err}
	} else {
		s.err = &DecodeError{URL: s.url, Err: err}
	}

	decodeErrors.Inc()
	log.WithFields(log.Fields{
		"feed":    s.url,
		"decoded": s.count,
		"error":   errors.Unwrap(s.err),
	}).Warn("Feed stream ended early")

	s.Close()
	return s.err
}
