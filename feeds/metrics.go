package feeds

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rssreader_fetches_total",
		Help: "Feed fetches by result",
	}, []string{"result"})

	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rssreader_fetch_duration_seconds",
		Help:    "Time until response headers of a feed fetch were received",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
	})

	articlesDecoded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rssreader_articles_decoded_total",
		Help: "Articles decoded from feed bodies",
	})

	decodeErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rssreader_decode_errors_total",
		Help: "Feed bodies that ended in a decode or read error",
	})
)

// WriteTextfile writes every registered metric to path in the text
// exposition format read by node_exporter's textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
