package engine_test

import (
	"context"
	"testing"

	"rssreader/engine"
	"rssreader/feeds"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan(t *testing.T) {
	srv := feedServer(t, map[string]string{
		"/one":   rss("1a", "1b"),
		"/two":   rss("2a"),
		"/three": rss("3a", "3b", "3c"),
	})
	e := newEngine(t)

	urls := []string{srv.URL + "/one", srv.URL + "/missing", srv.URL + "/two", srv.URL + "/three"}
	for _, u := range urls {
		_, err := e.AddFeed(u)
		require.NoError(t, err)
	}

	for _, workers := range []int{0, 1, 2, 8} {
		results, err := e.Scan(context.Background(), workers)
		require.NoError(t, err)
		require.Len(t, results, len(urls))

		for i, r := range results {
			assert.Equal(t, urls[i], r.Feed)
		}

		assert.NoError(t, results[0].Err)
		assert.Equal(t, []string{"1a", "1b"}, engine.Titles(results[0].Articles))

		var statusErr *feeds.BadStatusError
		assert.ErrorAs(t, results[1].Err, &statusErr)
		assert.Empty(t, results[1].Articles)

		assert.Equal(t, []string{"2a"}, engine.Titles(results[2].Articles))
		assert.Equal(t, []string{"3a", "3b", "3c"}, engine.Titles(results[3].Articles))
	}
}

func TestScanEmptyStore(t *testing.T) {
	e := newEngine(t)

	results, err := e.Scan(context.Background(), 4)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestScanCancelled(t *testing.T) {
	srv := feedServer(t, map[string]string{"/one": rss("1a")})
	e := newEngine(t)
	_, err := e.AddFeed(srv.URL + "/one")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := e.Scan(ctx, 2)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}
