package feeds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCountDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<rss><channel><item><title>a</title></item><item><title>b</title></item><<`)
	}))
	defer srv.Close()

	okBefore := testutil.ToFloat64(fetchesTotal.WithLabelValues("ok"))
	badBefore := testutil.ToFloat64(fetchesTotal.WithLabelValues("bad_status"))
	articlesBefore := testutil.ToFloat64(articlesDecoded)
	errorsBefore := testutil.ToFloat64(decodeErrors)

	d := NewDecoder(DecoderConfig{})

	_, err := d.Decode(context.Background(), srv.URL+"/missing")
	require.Error(t, err)

	stream, err := d.Decode(context.Background(), srv.URL)
	require.NoError(t, err)
	for {
		if _, err := stream.Next(); err != nil {
			assert.NotEqual(t, io.EOF, err)
			break
		}
	}

	assert.Equal(t, okBefore+1, testutil.ToFloat64(fetchesTotal.WithLabelValues("ok")))
	assert.Equal(t, badBefore+1, testutil.ToFloat64(fetchesTotal.WithLabelValues("bad_status")))
	assert.Equal(t, articlesBefore+2, testutil.ToFloat64(articlesDecoded))
	assert.Equal(t, errorsBefore+1, testutil.ToFloat64(decodeErrors))
}

func TestWriteTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rssreader.prom")

	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "rssreader_articles_decoded_total")
}
